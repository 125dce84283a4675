// Package engine implements the versioned content-tree core: the type
// registry, the per-asset change log with chronological reordering, tree
// materialization, schema validation, the builder with revision detection,
// template rendering, search, and cache rebuilds.
//
// The engine is a library invoked synchronously by request-handling code.
// Operations that populate caches or append to a change log mutate per-asset
// state and must be serialized per asset by the caller.
package engine

import (
	"fmt"
	"strconv"

	"github.com/ohler55/ojg/alt"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Engine exposes the content-tree operations over a record store.
type Engine struct {
	cupboard types.Cupboard
	log      zerolog.Logger

	assetTypes types.Table
	enumTypes  types.Table
	texts      types.Table
	uris       types.Table
	enumItems  types.Table
	assets     types.Table
	changes    types.Table
}

// New builds an Engine over an attached cupboard.
func New(cupboard types.Cupboard, log zerolog.Logger) (*Engine, error) {
	e := &Engine{cupboard: cupboard, log: log}
	for name, target := range map[string]*types.Table{
		types.AssetTypesTable: &e.assetTypes,
		types.EnumTypesTable:  &e.enumTypes,
		types.TextsTable:      &e.texts,
		types.URIsTable:       &e.uris,
		types.EnumItemsTable:  &e.enumItems,
		types.AssetsTable:     &e.assets,
		types.ChangesTable:    &e.changes,
	} {
		table, err := cupboard.GetTable(name)
		if err != nil {
			return nil, fmt.Errorf("resolving table %s: %w", name, err)
		}
		*target = table
	}
	return e, nil
}

func (e *Engine) getAsset(id string) (*types.Asset, error) {
	rec, err := e.assets.Get(id)
	if err != nil {
		return nil, err
	}
	return rec.(*types.Asset), nil
}

func (e *Engine) putAsset(a *types.Asset) error {
	_, err := e.assets.Set(a.AssetID, a)
	return err
}

func (e *Engine) getAssetType(typeID int64) (*types.AssetType, error) {
	rec, err := e.assetTypes.Get(strconv.FormatInt(typeID, 10))
	if err != nil {
		return nil, err
	}
	return rec.(*types.AssetType), nil
}

func (e *Engine) getEnumType(enumID int64) (*types.EnumType, error) {
	rec, err := e.enumTypes.Get(strconv.FormatInt(enumID, 10))
	if err != nil {
		return nil, err
	}
	return rec.(*types.EnumType), nil
}

func (e *Engine) getText(id int64) (*types.Text, error) {
	rec, err := e.texts.Get(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return rec.(*types.Text), nil
}

func (e *Engine) getURI(id int64) (*types.URIElement, error) {
	rec, err := e.uris.Get(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return rec.(*types.URIElement), nil
}

func (e *Engine) getEnumItem(id int64) (*types.EnumItem, error) {
	rec, err := e.enumItems.Get(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return rec.(*types.EnumItem), nil
}

// leafID normalizes a stored leaf reference to its int64 row id.
func leafID(ref any) (int64, error) {
	switch v := ref.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("reference %v is not a leaf row id", ref)
	}
}

// refEqual compares two stored references: int64 leaf row ids or sub-asset
// UUID strings. References of different shapes never compare equal.
func refEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	ai, errA := leafID(a)
	bi, errB := leafID(b)
	return errA == nil && errB == nil && ai == bi
}

// deepCopy duplicates a JSON-shaped value so replayed structures and field
// maps are never shared between cache entries.
func deepCopy[T any](v T) T {
	dup, _ := alt.Dup(v).(T)
	return dup
}
