// This file implements the changes table accessor for the structural diff
// log. Entries are updated in place by the bubble fix-up (parent re-links
// and structure-cache drops), so Set upserts.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: changesTable must implement Table.
var _ types.Table = (*changesTable)(nil)

type changesTable struct {
	backend *Backend
}

const changeColumns = `change_id, asset_id, parent_id, change_time, field,
	position, delete_count, inserts, structure_cache`

// Get retrieves a change entry by UUID.
func (ct *changesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := ct.backend.db.QueryRow(
		"SELECT "+changeColumns+" FROM changes WHERE change_id = ?", id,
	)
	c, err := scanChange(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting change %s: %w", id, err)
	}
	return c, nil
}

// Set persists a change entry. When id is empty a fresh UUID v4 is generated.
func (ct *changesTable) Set(id string, data any) (string, error) {
	c, ok := data.(*types.Change)
	if !ok {
		return "", types.ErrInvalidData
	}
	if c.AssetID == "" {
		return "", types.ErrInvalidData
	}

	if id == "" {
		if c.ChangeID == "" {
			c.ChangeID = uuid.NewString()
		}
		id = c.ChangeID
	}
	c.ChangeID = id

	var parentID, inserts, structureCache any
	if c.ParentID != "" {
		parentID = c.ParentID
	}
	if c.Inserts != nil {
		inserts = encodeJSON(c.Inserts)
	}
	if c.StructureCache != nil {
		structureCache = encodeJSON(c.StructureCache)
	}

	_, err := ct.backend.db.Exec(
		`INSERT INTO changes (change_id, asset_id, parent_id, change_time, field,
		   position, delete_count, inserts, structure_cache)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(change_id) DO UPDATE SET
		   asset_id = excluded.asset_id,
		   parent_id = excluded.parent_id,
		   change_time = excluded.change_time,
		   field = excluded.field,
		   position = excluded.position,
		   delete_count = excluded.delete_count,
		   inserts = excluded.inserts,
		   structure_cache = excluded.structure_cache`,
		id, c.AssetID, parentID, c.Time.UTC().Format(time.RFC3339Nano), c.Field,
		c.Position, c.DeleteCount, inserts, structureCache,
	)
	if err != nil {
		return "", fmt.Errorf("persisting change %s: %w", id, err)
	}
	return id, nil
}

// Delete removes a change entry.
func (ct *changesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	res, err := ct.backend.db.Exec("DELETE FROM changes WHERE change_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting change %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns change entries matching the filter.
// Recognized filter keys: "asset_id" (string), "parent_id" (string).
func (ct *changesTable) Fetch(filter types.Filter) ([]any, error) {
	query := "SELECT " + changeColumns + " FROM changes"
	var conditions []string
	var args []any

	if v, ok := filter["asset_id"]; ok {
		assetID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "asset_id = ?")
		args = append(args, assetID)
	}
	if v, ok := filter["parent_id"]; ok {
		parentID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "parent_id = ?")
		args = append(args, parentID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY change_time"

	rows, err := ct.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching changes: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating change: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func scanChange(scanner rowScanner) (*types.Change, error) {
	c := &types.Change{}
	var parentID, inserts, structureCache sql.NullString
	var changeTime string

	err := scanner.Scan(&c.ChangeID, &c.AssetID, &parentID, &changeTime, &c.Field,
		&c.Position, &c.DeleteCount, &inserts, &structureCache)
	if err != nil {
		return nil, err
	}

	if c.Time, err = time.Parse(time.RFC3339Nano, changeTime); err != nil {
		return nil, fmt.Errorf("parsing timestamp of change %s: %w", c.ChangeID, err)
	}
	if parentID.Valid {
		c.ParentID = parentID.String
	}
	if inserts.Valid {
		if c.Inserts, err = decodeJSON(inserts.String); err != nil {
			return nil, fmt.Errorf("decoding inserts of change %s: %w", c.ChangeID, err)
		}
	}
	if structureCache.Valid {
		if c.StructureCache, err = decodeJSONMap(structureCache.String); err != nil {
			return nil, fmt.Errorf("decoding structure cache of change %s: %w", c.ChangeID, err)
		}
	}
	return c, nil
}
