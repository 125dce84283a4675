// This file implements the asset_types table accessor. Asset types are
// configuration data loaded by the fixture loader; the engine treats them
// as read-only at runtime.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: assetTypesTable must implement Table.
var _ types.Table = (*assetTypesTable)(nil)

type assetTypesTable struct {
	backend *Backend
}

// Get retrieves an asset type by numeric id.
func (at *assetTypesTable) Get(id string) (any, error) {
	typeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, types.ErrInvalidID
	}

	row := at.backend.db.QueryRow(
		"SELECT type_id, type_name, parent_type_id, schema, templates FROM asset_types WHERE type_id = ?",
		typeID,
	)
	return hydrateAssetType(row)
}

// Set persists an asset type. Explicit TypeID values from fixtures are
// honored; when absent a fresh id is assigned. Ids 1-3 are reserved by the
// descriptor wire encoding, so assignment always starts at 4.
func (at *assetTypesTable) Set(id string, data any) (string, error) {
	t, ok := data.(*types.AssetType)
	if !ok {
		return "", types.ErrInvalidData
	}
	if t.Name == "" {
		return "", types.ErrInvalidData
	}

	typeID := t.TypeID
	if id != "" {
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return "", types.ErrInvalidID
		}
		typeID = parsed
	}
	if typeID == 0 {
		err := at.backend.db.QueryRow(
			"SELECT COALESCE(MAX(type_id), 3) + 1 FROM asset_types",
		).Scan(&typeID)
		if err != nil {
			return "", fmt.Errorf("assigning type id: %w", err)
		}
		if typeID < 4 {
			typeID = 4
		}
	}

	var parent any
	if t.ParentID != 0 {
		parent = t.ParentID
	}

	_, err := at.backend.db.Exec(
		`INSERT INTO asset_types (type_id, type_name, parent_type_id, schema, templates)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(type_id) DO UPDATE SET
		   type_name = excluded.type_name,
		   parent_type_id = excluded.parent_type_id,
		   schema = excluded.schema,
		   templates = excluded.templates`,
		typeID, t.Name, parent, encodeJSON(t.Schema.Wire()), encodeJSON(templatesWire(t.Templates)),
	)
	if err != nil {
		return "", fmt.Errorf("persisting asset type %q: %w", t.Name, err)
	}
	t.TypeID = typeID
	return strconv.FormatInt(typeID, 10), nil
}

// Delete removes an asset type.
func (at *assetTypesTable) Delete(id string) error {
	typeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.ErrInvalidID
	}
	res, err := at.backend.db.Exec("DELETE FROM asset_types WHERE type_id = ?", typeID)
	if err != nil {
		return fmt.Errorf("deleting asset type %s: %w", id, err)
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

// Fetch returns asset types matching the filter.
// Recognized filter keys: "name" (string), "parent_id" (int64).
func (at *assetTypesTable) Fetch(filter types.Filter) ([]any, error) {
	query := "SELECT type_id, type_name, parent_type_id, schema, templates FROM asset_types"
	var conditions []string
	var args []any

	if v, ok := filter["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "type_name = ?")
		args = append(args, name)
	}
	if v, ok := filter["parent_id"]; ok {
		parentID, ok := v.(int64)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "parent_type_id = ?")
		args = append(args, parentID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY type_id"

	rows, err := at.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching asset types: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		t, err := hydrateAssetTypeFromRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for shared hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateAssetType(row *sql.Row) (*types.AssetType, error) {
	t, err := scanAssetType(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	return t, err
}

func hydrateAssetTypeFromRows(rows *sql.Rows) (*types.AssetType, error) {
	return scanAssetType(rows)
}

func scanAssetType(scanner rowScanner) (*types.AssetType, error) {
	t := &types.AssetType{}
	var parent sql.NullInt64
	var schemaJSON, templatesJSON string

	if err := scanner.Scan(&t.TypeID, &t.Name, &parent, &schemaJSON, &templatesJSON); err != nil {
		return nil, err
	}
	if parent.Valid {
		t.ParentID = parent.Int64
	}

	schemaWire, err := decodeJSONMap(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding schema of type %q: %w", t.Name, err)
	}
	t.Schema, err = types.ParseSchema(schemaWire)
	if err != nil {
		return nil, fmt.Errorf("decoding schema of type %q: %w", t.Name, err)
	}

	templatesWire, err := decodeJSONMap(templatesJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding templates of type %q: %w", t.Name, err)
	}
	t.Templates = make(map[string]string, len(templatesWire))
	for name, v := range templatesWire {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("template %q of type %q is not a string", name, t.Name)
		}
		t.Templates[name] = s
	}
	return t, nil
}

// templatesWire converts a template map to the []any-friendly form
// encodeJSON expects.
func templatesWire(templates map[string]string) map[string]any {
	wire := make(map[string]any, len(templates))
	for name, tpl := range templates {
		wire[name] = tpl
	}
	return wire
}
