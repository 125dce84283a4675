// This file implements the texts table accessor. Text leaf units are
// immutable: Set only ever inserts a new row, updates are rejected.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: textsTable must implement Table.
var _ types.Table = (*textsTable)(nil)

type textsTable struct {
	backend *Backend
}

// Get retrieves a text leaf by row id.
func (tt *textsTable) Get(id string) (any, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, types.ErrInvalidID
	}

	text := &types.Text{TextID: rowID}
	err = tt.backend.db.QueryRow(
		"SELECT text FROM texts WHERE text_id = ?", rowID,
	).Scan(&text.Text)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting text %s: %w", id, err)
	}
	return text, nil
}

// Set inserts a new text leaf. Leaf units are never overwritten in place,
// so a non-empty id is rejected.
func (tt *textsTable) Set(id string, data any) (string, error) {
	if id != "" {
		return "", types.ErrInvalidData
	}
	text, ok := data.(*types.Text)
	if !ok {
		return "", types.ErrInvalidData
	}

	res, err := tt.backend.db.Exec("INSERT INTO texts (text) VALUES (?)", text.Text)
	if err != nil {
		return "", fmt.Errorf("inserting text: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading text row id: %w", err)
	}
	text.TextID = rowID
	return strconv.FormatInt(rowID, 10), nil
}

// Delete removes a text leaf.
func (tt *textsTable) Delete(id string) error {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.ErrInvalidID
	}
	res, err := tt.backend.db.Exec("DELETE FROM texts WHERE text_id = ?", rowID)
	if err != nil {
		return fmt.Errorf("deleting text %s: %w", id, err)
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

// Fetch returns all text leaves. No filter keys are recognized.
func (tt *textsTable) Fetch(filter types.Filter) ([]any, error) {
	rows, err := tt.backend.db.Query("SELECT text_id, text FROM texts ORDER BY text_id")
	if err != nil {
		return nil, fmt.Errorf("fetching texts: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		text := &types.Text{}
		if err := rows.Scan(&text.TextID, &text.Text); err != nil {
			return nil, fmt.Errorf("hydrating text: %w", err)
		}
		results = append(results, text)
	}
	return results, rows.Err()
}
