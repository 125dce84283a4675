// This file implements the per-asset change log: appending splice entries,
// the bubble fix-up that restores chronological order after an out-of-order
// append, and structure replay with per-entry caching.
package engine

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// AppendChange appends a splice entry to an asset's change log. The entry is
// linked under the current tip; if its timestamp precedes the tip's, the
// bubble fix-up re-links the chain so timestamps ascend from root to tip.
//
// For list fields the splice removes deleteCount references at position and
// inserts the given references there. For non-list fields position and
// deleteCount are ignored and the single reference replaces the field value.
func (e *Engine) AppendChange(assetID, field string, position, deleteCount int, inserts any, when time.Time) (*types.Change, error) {
	tip, err := e.changeTip(assetID)
	if err != nil {
		return nil, err
	}

	entry := &types.Change{
		AssetID:     assetID,
		Time:        when.UTC(),
		Field:       field,
		Position:    position,
		DeleteCount: deleteCount,
		Inserts:     inserts,
	}
	if tip != nil {
		entry.ParentID = tip.ChangeID
	}
	if _, err := e.changes.Set("", entry); err != nil {
		return nil, err
	}

	if err := e.bubble(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// changeTip returns the asset's newest change entry: the one no other entry
// names as its parent. Returns nil when the asset has no change log.
func (e *Engine) changeTip(assetID string) (*types.Change, error) {
	records, err := e.changes.Fetch(types.Filter{"asset_id": assetID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	hasChild := make(map[string]bool, len(records))
	for _, rec := range records {
		hasChild[rec.(*types.Change).ParentID] = true
	}

	var tip *types.Change
	for _, rec := range records {
		entry := rec.(*types.Change)
		if hasChild[entry.ChangeID] {
			continue
		}
		if tip == nil || entry.Time.After(tip.Time) {
			tip = entry
		}
	}
	if tip == nil {
		return nil, fmt.Errorf("change log of asset %s has no tip", assetID)
	}
	return tip, nil
}

// bubble restores the ascending-timestamp invariant along the parent chain.
// While the entry's parent is newer than the entry, the two swap places: the
// entry adopts the grandparent, the parent adopts the entry, and the entry's
// former child re-links to the parent. Each swap drops the structure caches
// of the displaced parent and everything after it.
func (e *Engine) bubble(entry *types.Change) error {
	for entry.ParentID != "" {
		rec, err := e.changes.Get(entry.ParentID)
		if err != nil {
			return fmt.Errorf("loading parent of change %s: %w", entry.ChangeID, err)
		}
		parent := rec.(*types.Change)
		if !parent.Time.After(entry.Time) {
			break
		}

		children, err := e.changes.Fetch(types.Filter{"parent_id": entry.ChangeID})
		if err != nil {
			return err
		}

		entry.ParentID = parent.ParentID
		parent.ParentID = entry.ChangeID
		if _, err := e.changes.Set(entry.ChangeID, entry); err != nil {
			return err
		}
		if _, err := e.changes.Set(parent.ChangeID, parent); err != nil {
			return err
		}
		for _, rec := range children {
			child := rec.(*types.Change)
			child.ParentID = parent.ChangeID
			if _, err := e.changes.Set(child.ChangeID, child); err != nil {
				return err
			}
		}

		if err := e.invalidateStructure(parent); err != nil {
			return err
		}
	}
	return nil
}

// invalidateStructure drops an entry's replayed structure cache and,
// recursively, the caches of every entry downstream of it.
func (e *Engine) invalidateStructure(entry *types.Change) error {
	if entry.StructureCache != nil {
		entry.StructureCache = nil
		if _, err := e.changes.Set(entry.ChangeID, entry); err != nil {
			return err
		}
	}
	children, err := e.changes.Fetch(types.Filter{"parent_id": entry.ChangeID})
	if err != nil {
		return err
	}
	for _, rec := range children {
		if err := e.invalidateStructure(rec.(*types.Change)); err != nil {
			return err
		}
	}
	return nil
}

// structureAt replays the chain from the root to the entry, yielding the
// asset's field map at that point. The result is cached on the entry and
// must be treated as read-only by callers.
func (e *Engine) structureAt(entry *types.Change) (map[string]any, error) {
	if entry.StructureCache != nil {
		return entry.StructureCache, nil
	}

	var structure map[string]any
	if entry.ParentID == "" {
		asset, err := e.getAsset(entry.AssetID)
		if err != nil {
			return nil, err
		}
		t, err := e.getAssetType(asset.TypeID)
		if err != nil {
			return nil, err
		}
		structure = make(map[string]any, len(t.Schema))
		for field, d := range t.Schema {
			if d.IsList() {
				structure[field] = []any{}
			} else {
				structure[field] = nil
			}
		}
	} else {
		rec, err := e.changes.Get(entry.ParentID)
		if err != nil {
			return nil, fmt.Errorf("loading parent of change %s: %w", entry.ChangeID, err)
		}
		parentStructure, err := e.structureAt(rec.(*types.Change))
		if err != nil {
			return nil, err
		}
		structure = deepCopy(parentStructure)
	}

	if list, ok := structure[entry.Field].([]any); ok {
		inserts, _ := entry.Inserts.([]any)
		structure[entry.Field] = spliceRefs(list, entry.Position, entry.DeleteCount, inserts)
	} else {
		structure[entry.Field] = entry.Inserts
	}

	entry.StructureCache = structure
	if _, err := e.changes.Set(entry.ChangeID, entry); err != nil {
		return nil, err
	}
	return structure, nil
}

// fieldMap returns the asset's current field map: the change-log replay at
// the tip, or the stored snapshot for assets without a change log (detached
// revision rows keep their snapshot after the log has moved on).
func (e *Engine) fieldMap(a *types.Asset) (map[string]any, error) {
	tip, err := e.changeTip(a.AssetID)
	if err != nil {
		return nil, err
	}
	if tip == nil {
		return deepCopy(a.ContentIDs), nil
	}
	return e.structureAt(tip)
}

// spliceRefs removes deleteCount elements at position and inserts the given
// elements there. Out-of-range positions clamp to the list bounds.
func spliceRefs(list []any, position, deleteCount int, inserts []any) []any {
	if position < 0 {
		position = 0
	}
	if position > len(list) {
		position = len(list)
	}
	end := position + deleteCount
	if end > len(list) {
		end = len(list)
	}

	out := make([]any, 0, len(list)-(end-position)+len(inserts))
	out = append(out, list[:position]...)
	out = append(out, inserts...)
	out = append(out, list[end:]...)
	return out
}
