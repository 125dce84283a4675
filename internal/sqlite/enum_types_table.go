// This file implements the enum_types table accessor. Enumeration
// definitions are configuration data, loaded by the fixture loader.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: enumTypesTable must implement Table.
var _ types.Table = (*enumTypesTable)(nil)

type enumTypesTable struct {
	backend *Backend
}

// Get retrieves an enumeration definition by numeric id.
func (et *enumTypesTable) Get(id string) (any, error) {
	enumID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, types.ErrInvalidID
	}

	var itemsJSON string
	err = et.backend.db.QueryRow(
		"SELECT items FROM enum_types WHERE enum_id = ?", enumID,
	).Scan(&itemsJSON)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting enum type %s: %w", id, err)
	}

	items, err := decodeStringList(itemsJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding items of enum type %s: %w", id, err)
	}
	return &types.EnumType{EnumID: enumID, Items: items}, nil
}

// Set persists an enumeration definition. Explicit EnumID values from
// fixtures are honored; when absent a fresh id is assigned.
func (et *enumTypesTable) Set(id string, data any) (string, error) {
	e, ok := data.(*types.EnumType)
	if !ok {
		return "", types.ErrInvalidData
	}

	enumID := e.EnumID
	if id != "" {
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return "", types.ErrInvalidID
		}
		enumID = parsed
	}
	if enumID == 0 {
		err := et.backend.db.QueryRow(
			"SELECT COALESCE(MAX(enum_id), 0) + 1 FROM enum_types",
		).Scan(&enumID)
		if err != nil {
			return "", fmt.Errorf("assigning enum id: %w", err)
		}
	}

	_, err := et.backend.db.Exec(
		`INSERT INTO enum_types (enum_id, items) VALUES (?, ?)
		 ON CONFLICT(enum_id) DO UPDATE SET items = excluded.items`,
		enumID, encodeJSON(stringWire(e.Items)),
	)
	if err != nil {
		return "", fmt.Errorf("persisting enum type %d: %w", enumID, err)
	}
	e.EnumID = enumID
	return strconv.FormatInt(enumID, 10), nil
}

// Delete removes an enumeration definition.
func (et *enumTypesTable) Delete(id string) error {
	enumID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.ErrInvalidID
	}
	res, err := et.backend.db.Exec("DELETE FROM enum_types WHERE enum_id = ?", enumID)
	if err != nil {
		return fmt.Errorf("deleting enum type %s: %w", id, err)
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

// Fetch returns all enumeration definitions. No filter keys are recognized.
func (et *enumTypesTable) Fetch(filter types.Filter) ([]any, error) {
	rows, err := et.backend.db.Query("SELECT enum_id, items FROM enum_types ORDER BY enum_id")
	if err != nil {
		return nil, fmt.Errorf("fetching enum types: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var enumID int64
		var itemsJSON string
		if err := rows.Scan(&enumID, &itemsJSON); err != nil {
			return nil, fmt.Errorf("hydrating enum type: %w", err)
		}
		items, err := decodeStringList(itemsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding items of enum type %d: %w", enumID, err)
		}
		results = append(results, &types.EnumType{EnumID: enumID, Items: items})
	}
	return results, rows.Err()
}
