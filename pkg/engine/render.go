// This file implements the template renderer: schema-driven substitution of
// {{field}} markers and {{for(field)}}...{{endfor}} list blocks, with the
// "raw" template result cached on the asset.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/strata/internal/metrics"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// RawTemplate is the distinguished template name whose rendered output is
// cached on the asset.
const RawTemplate = "raw"

// Render resolves the named template of the asset's type into a flat string.
// Types without a template of that name render to the empty string. List
// fields iterate their {{for(field)}} body once per element; scalar markers
// substitute repeatedly until exhausted; sub-assets render recursively with
// the same template name.
func (e *Engine) Render(assetID, templateName string) (string, error) {
	a, err := e.getAsset(assetID)
	if err != nil {
		return "", err
	}
	t, err := e.getAssetType(a.TypeID)
	if err != nil {
		return "", err
	}
	tpl, ok := t.Template(templateName)
	if !ok {
		return "", nil
	}
	if templateName == RawTemplate && a.RawCache != nil {
		return *a.RawCache, nil
	}

	structure, err := e.fieldMap(a)
	if err != nil {
		return "", fmt.Errorf("replaying structure of asset %s: %w", a.AssetID, err)
	}

	result := tpl
	for field, d := range t.Schema {
		fieldPattern := regexp.QuoteMeta(field)
		markerRe := regexp.MustCompile(`(?s)^(.*?)\{\{` + fieldPattern + `\}\}(.*)$`)

		if d.IsList() {
			blockRe := regexp.MustCompile(
				`(?s)^(.*?)\{\{for\(` + fieldPattern + `\)\}\}(.*?)\{\{endfor\}\}(.*)$`)
			for m := blockRe.FindStringSubmatch(result); m != nil; m = blockRe.FindStringSubmatch(result) {
				refs, _ := structure[field].([]any)
				var block strings.Builder
				for _, ref := range refs {
					body := m[2]
					for bm := markerRe.FindStringSubmatch(body); bm != nil; bm = markerRe.FindStringSubmatch(body) {
						value, err := e.renderContent(*d.Elem, ref, templateName)
						if err != nil {
							return "", err
						}
						body = bm[1] + value + bm[2]
					}
					block.WriteString(body)
				}
				result = m[1] + block.String() + m[3]
			}
			continue
		}

		for m := markerRe.FindStringSubmatch(result); m != nil; m = markerRe.FindStringSubmatch(result) {
			value, err := e.renderContent(d, structure[field], templateName)
			if err != nil {
				return "", err
			}
			result = m[1] + value + m[2]
		}
	}

	if templateName == RawTemplate {
		a.RawCache = &result
		if err := e.putAsset(a); err != nil {
			return "", err
		}
	}
	metrics.Renders.WithLabelValues(templateName).Inc()
	return result, nil
}

// renderContent resolves one reference to its rendered text: leaf content
// verbatim, sub-assets through a recursive render.
func (e *Engine) renderContent(d types.Descriptor, ref any, templateName string) (string, error) {
	if d.IsLeaf() {
		return e.leafValue(d, ref)
	}
	subID, ok := ref.(string)
	if !ok {
		return "", fmt.Errorf("reference %v is not a sub-asset id", ref)
	}
	return e.Render(subID, templateName)
}
