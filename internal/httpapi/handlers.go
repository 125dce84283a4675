// This file implements the route handlers. Error payloads use the
// {"Error": ...} shape, with the offending subtree attached under "Asset"
// for schema violations.
package httpapi

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/strata/pkg/types"
)

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"Error": message})
}

func (s *Server) loadAsset(c *gin.Context) {
	id, ok := c.GetQuery("id")
	if !ok {
		badRequest(c, "Please supply a 'id' as a GET param.")
		return
	}
	content, err := s.engine.Materialize(id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			badRequest(c, "No Asset with id="+id+" found.")
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) saveAsset(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, err)
		return
	}
	parsed, err := oj.ParseString(string(body))
	if err != nil {
		badRequest(c, "Request not in JSON format. The requests body has to be valid JSON.")
		return
	}
	tree, ok := parsed.(map[string]any)
	if !ok {
		badRequest(c, "Request not in JSON format. The requests body has to be valid JSON.")
		return
	}

	id, err := s.engine.Save(tree)
	if err != nil {
		var schemaErr *types.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"Error": schemaErr.Message,
				"Asset": schemaErr.Subtree,
			})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (s *Server) find(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(body) > 0 && c.ContentType() != "application/json" {
		badRequest(c, "If you supply filters they need to be valid JSON and "+
			`the request must have the MIME-type "application/json".`)
		return
	}

	filter := map[string]any{}
	if len(body) > 0 {
		parsed, err := oj.ParseString(string(body))
		if err != nil {
			badRequest(c, "The filters are not in JSON format. The request body has to be valid JSON.")
			return
		}
		if filter, err = asFilterObject(parsed); err != nil {
			badRequest(c, "The filters are not in JSON format. The request body has to be valid JSON.")
			return
		}
	}

	results, err := s.engine.Find(c.Query("q"), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": results})
}

func asFilterObject(parsed any) (map[string]any, error) {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, errors.New("filter is not a JSON object")
	}
	return obj, nil
}

func (s *Server) getTemplate(c *gin.Context) {
	typeName, hasType := c.GetQuery("type_name")
	templateName, hasTemplate := c.GetQuery("template_type")
	if !hasType || !hasTemplate {
		badRequest(c, "You must supply template_type and type_name as GET params.")
		return
	}

	t, err := s.engine.ResolveType(typeName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			badRequest(c, `The AssetType "`+typeName+`" does not exist.`)
			return
		}
		s.fail(c, err)
		return
	}
	tpl, ok := t.Template(templateName)
	if !ok {
		badRequest(c, `The AssetType "`+typeName+`" has no template "`+templateName+`".`)
		return
	}
	c.String(http.StatusOK, tpl)
}

func (s *Server) getSchema(c *gin.Context) {
	nameOrID, hasName := c.GetQuery("type_name")
	if !hasName {
		var hasID bool
		if nameOrID, hasID = c.GetQuery("type_id"); !hasID {
			badRequest(c, "You must supply a type_name or a type_id as GET params.")
			return
		}
	}

	schema, err := s.engine.SchemaOf(nameOrID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			badRequest(c, `The AssetType "`+nameOrID+`" does not exist.`)
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

func (s *Server) typesForParent(c *gin.Context) {
	parentName, ok := c.GetQuery("parent_type_name")
	if !ok {
		badRequest(c, "You must supply parent_type_name as GET param.")
		return
	}

	parent, err := s.engine.ResolveType(parentName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			badRequest(c, `The AssetType "`+parentName+`" does not exist.`)
			return
		}
		s.fail(c, err)
		return
	}
	children, err := s.engine.ChildrenOf(parent.TypeID)
	if err != nil {
		s.fail(c, err)
		return
	}
	names := make([]string, len(children))
	for i, child := range children {
		names[i] = child.Name
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) openAPIDefinition(c *gin.Context) {
	raw, err := os.ReadFile(s.config.OpenAPIFile)
	if err != nil {
		s.fail(c, err)
		return
	}
	var definition map[string]any
	if err := yaml.Unmarshal(raw, &definition); err != nil {
		s.fail(c, err)
		return
	}
	if s.config.PublicURL != "" {
		if servers, ok := definition["servers"].([]any); ok && len(servers) > 0 {
			if server, ok := servers[0].(map[string]any); ok {
				server["url"] = s.config.PublicURL
			}
		}
	}
	c.JSON(http.StatusOK, definition)
}

func (s *Server) live(c *gin.Context) {
	if _, err := s.cupboard.GetTable(types.AssetsTable); err != nil {
		c.String(http.StatusBadRequest, "")
		return
	}
	c.String(http.StatusOK, "")
}

func (s *Server) rebuildCaches(c *gin.Context) {
	stats, err := s.engine.RebuildCaches()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"Error": err.Error()})
}
