package engine

import (
	"strconv"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// ResolveType looks up an asset type by name or by decimal id. The registry
// is read-only at runtime; types are loaded by the fixture loader.
func (e *Engine) ResolveType(nameOrID string) (*types.AssetType, error) {
	if typeID, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		return e.getAssetType(typeID)
	}
	return e.typeByName(nameOrID)
}

func (e *Engine) typeByName(name string) (*types.AssetType, error) {
	matches, err := e.assetTypes.Fetch(types.Filter{"name": name})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, types.ErrNotFound
	}
	return matches[0].(*types.AssetType), nil
}

// ChildrenOf returns the asset types whose parent is the given type.
func (e *Engine) ChildrenOf(typeID int64) ([]*types.AssetType, error) {
	matches, err := e.assetTypes.Fetch(types.Filter{"parent_id": typeID})
	if err != nil {
		return nil, err
	}
	children := make([]*types.AssetType, len(matches))
	for i, m := range matches {
		children[i] = m.(*types.AssetType)
	}
	return children, nil
}

// Template returns the named template of a type, resolved by name or id.
func (e *Engine) Template(nameOrID, templateName string) (string, error) {
	t, err := e.ResolveType(nameOrID)
	if err != nil {
		return "", err
	}
	tpl, ok := t.Template(templateName)
	if !ok {
		return "", types.ErrNotFound
	}
	return tpl, nil
}

// SchemaOf returns the wire-encoded schema of a type, resolved by name or id.
func (e *Engine) SchemaOf(nameOrID string) (map[string]any, error) {
	t, err := e.ResolveType(nameOrID)
	if err != nil {
		return nil, err
	}
	return t.Schema.Wire(), nil
}
