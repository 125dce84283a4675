// This file implements the enum_items table accessor. Enum item leaf units
// are immutable: Set only ever inserts a new row.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: enumItemsTable must implement Table.
var _ types.Table = (*enumItemsTable)(nil)

type enumItemsTable struct {
	backend *Backend
}

// Get retrieves an enum item leaf by row id.
func (et *enumItemsTable) Get(id string) (any, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, types.ErrInvalidID
	}

	item := &types.EnumItem{ItemID: rowID}
	err = et.backend.db.QueryRow(
		"SELECT enum_id, item FROM enum_items WHERE item_id = ?", rowID,
	).Scan(&item.EnumID, &item.Item)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting enum item %s: %w", id, err)
	}
	return item, nil
}

// Set inserts a new enum item leaf. A non-empty id is rejected.
func (et *enumItemsTable) Set(id string, data any) (string, error) {
	if id != "" {
		return "", types.ErrInvalidData
	}
	item, ok := data.(*types.EnumItem)
	if !ok {
		return "", types.ErrInvalidData
	}

	res, err := et.backend.db.Exec(
		"INSERT INTO enum_items (enum_id, item) VALUES (?, ?)",
		item.EnumID, item.Item,
	)
	if err != nil {
		return "", fmt.Errorf("inserting enum item: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading enum item row id: %w", err)
	}
	item.ItemID = rowID
	return strconv.FormatInt(rowID, 10), nil
}

// Delete removes an enum item leaf.
func (et *enumItemsTable) Delete(id string) error {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.ErrInvalidID
	}
	res, err := et.backend.db.Exec("DELETE FROM enum_items WHERE item_id = ?", rowID)
	if err != nil {
		return fmt.Errorf("deleting enum item %s: %w", id, err)
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

// Fetch returns enum items matching the filter.
// Recognized filter keys: "enum_id" (int64).
func (et *enumItemsTable) Fetch(filter types.Filter) ([]any, error) {
	query := "SELECT item_id, enum_id, item FROM enum_items"
	var args []any

	if v, ok := filter["enum_id"]; ok {
		enumID, ok := v.(int64)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE enum_id = ?"
		args = append(args, enumID)
	}
	query += " ORDER BY item_id"

	rows, err := et.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching enum items: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		item := &types.EnumItem{}
		if err := rows.Scan(&item.ItemID, &item.EnumID, &item.Item); err != nil {
			return nil, fmt.Errorf("hydrating enum item: %w", err)
		}
		results = append(results, item)
	}
	return results, rows.Err()
}
