// This file implements the uris table accessor. URI leaf units are
// immutable: Set only ever inserts a new row.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: urisTable must implement Table.
var _ types.Table = (*urisTable)(nil)

type urisTable struct {
	backend *Backend
}

// Get retrieves a URI leaf by row id.
func (ut *urisTable) Get(id string) (any, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, types.ErrInvalidID
	}

	uri := &types.URIElement{URIID: rowID}
	err = ut.backend.db.QueryRow(
		"SELECT uri FROM uris WHERE uri_id = ?", rowID,
	).Scan(&uri.URI)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting uri %s: %w", id, err)
	}
	return uri, nil
}

// Set inserts a new URI leaf. A non-empty id is rejected.
func (ut *urisTable) Set(id string, data any) (string, error) {
	if id != "" {
		return "", types.ErrInvalidData
	}
	uri, ok := data.(*types.URIElement)
	if !ok {
		return "", types.ErrInvalidData
	}

	res, err := ut.backend.db.Exec("INSERT INTO uris (uri) VALUES (?)", uri.URI)
	if err != nil {
		return "", fmt.Errorf("inserting uri: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading uri row id: %w", err)
	}
	uri.URIID = rowID
	return strconv.FormatInt(rowID, 10), nil
}

// Delete removes a URI leaf.
func (ut *urisTable) Delete(id string) error {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.ErrInvalidID
	}
	res, err := ut.backend.db.Exec("DELETE FROM uris WHERE uri_id = ?", rowID)
	if err != nil {
		return fmt.Errorf("deleting uri %s: %w", id, err)
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

// Fetch returns all URI leaves. No filter keys are recognized.
func (ut *urisTable) Fetch(filter types.Filter) ([]any, error) {
	rows, err := ut.backend.db.Query("SELECT uri_id, uri FROM uris ORDER BY uri_id")
	if err != nil {
		return nil, fmt.Errorf("fetching uris: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		uri := &types.URIElement{}
		if err := rows.Scan(&uri.URIID, &uri.URI); err != nil {
			return nil, fmt.Errorf("hydrating uri: %w", err)
		}
		results = append(results, uri)
	}
	return results, rows.Err()
}
