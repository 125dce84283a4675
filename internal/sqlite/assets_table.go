// This file implements the assets table accessor. Field maps, caches and
// reference lists are JSON columns; hydration round-trips them through ojg
// so leaf references stay int64.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Compile-time interface check: assetsTable must implement Table.
var _ types.Table = (*assetsTable)(nil)

type assetsTable struct {
	backend *Backend
}

const assetColumns = `asset_id, type_id, content_ids, content_cache, raw_cache,
	text_refs, uri_refs, enum_refs, asset_refs, revision_chain`

// Get retrieves an asset by UUID.
func (at *assetsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := at.backend.db.QueryRow(
		"SELECT "+assetColumns+" FROM assets WHERE asset_id = ?", id,
	)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset %s: %w", id, err)
	}
	return a, nil
}

// Set persists an asset. When id is empty a fresh UUID v4 is generated.
func (at *assetsTable) Set(id string, data any) (string, error) {
	a, ok := data.(*types.Asset)
	if !ok {
		return "", types.ErrInvalidData
	}

	if id == "" {
		if a.AssetID == "" {
			a.AssetID = uuid.NewString()
		}
		id = a.AssetID
	}
	a.AssetID = id

	var contentCache, rawCache, revisionChain any
	if a.ContentCache != nil {
		contentCache = encodeJSON(a.ContentCache)
	}
	if a.RawCache != nil {
		rawCache = *a.RawCache
	}
	if a.RevisionChain != "" {
		revisionChain = a.RevisionChain
	}
	contentIDs := a.ContentIDs
	if contentIDs == nil {
		contentIDs = map[string]any{}
	}

	_, err := at.backend.db.Exec(
		`INSERT INTO assets (asset_id, type_id, content_ids, content_cache, raw_cache,
		   text_refs, uri_refs, enum_refs, asset_refs, revision_chain)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(asset_id) DO UPDATE SET
		   type_id = excluded.type_id,
		   content_ids = excluded.content_ids,
		   content_cache = excluded.content_cache,
		   raw_cache = excluded.raw_cache,
		   text_refs = excluded.text_refs,
		   uri_refs = excluded.uri_refs,
		   enum_refs = excluded.enum_refs,
		   asset_refs = excluded.asset_refs,
		   revision_chain = excluded.revision_chain`,
		id, a.TypeID, encodeJSON(contentIDs), contentCache, rawCache,
		encodeJSON(int64Wire(a.TextRefs)), encodeJSON(int64Wire(a.URIRefs)),
		encodeJSON(int64Wire(a.EnumRefs)), encodeJSON(stringWire(a.AssetRefs)),
		revisionChain,
	)
	if err != nil {
		return "", fmt.Errorf("persisting asset %s: %w", id, err)
	}
	return id, nil
}

// Delete removes an asset row. Used by the builder to discard speculative
// revision rows that turned out not to be needed.
func (at *assetsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	res, err := at.backend.db.Exec("DELETE FROM assets WHERE asset_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", id, err)
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

// Fetch returns assets matching the filter. Recognized filter keys:
//
//	"current" (bool)            assets no other row lists as its previous revision
//	"references_asset" (string) assets whose child-asset reference list contains the id
//	"missing_content_cache"     assets with no materialized value cache
//	"missing_raw_cache"         assets with no rendered output cache
//	"raw_contains" (string)     case-insensitive substring match on the rendered cache
func (at *assetsTable) Fetch(filter types.Filter) ([]any, error) {
	query := "SELECT " + assetColumns + " FROM assets"
	var conditions []string
	var args []any

	if v, ok := filter["current"]; ok {
		current, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if current {
			conditions = append(conditions,
				"NOT EXISTS (SELECT 1 FROM assets AS successor WHERE successor.revision_chain = assets.asset_id)")
		}
	}
	if v, ok := filter["references_asset"]; ok {
		childID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		// asset_refs is a JSON array of UUID strings; a quoted substring
		// match is exact because UUIDs contain no JSON metacharacters.
		conditions = append(conditions, "instr(asset_refs, ?) > 0")
		args = append(args, `"`+childID+`"`)
	}
	if v, ok := filter["missing_content_cache"]; ok {
		missing, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if missing {
			conditions = append(conditions, "content_cache IS NULL")
		}
	}
	if v, ok := filter["missing_raw_cache"]; ok {
		missing, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if missing {
			conditions = append(conditions, "raw_cache IS NULL")
		}
	}
	if v, ok := filter["raw_contains"]; ok {
		substr, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "raw_cache IS NOT NULL AND instr(lower(raw_cache), lower(?)) > 0")
		args = append(args, substr)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY asset_id"

	rows, err := at.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching assets: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating asset: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func scanAsset(scanner rowScanner) (*types.Asset, error) {
	a := &types.Asset{}
	var contentIDs string
	var contentCache, rawCache, revisionChain sql.NullString
	var textRefs, uriRefs, enumRefs, assetRefs string

	err := scanner.Scan(&a.AssetID, &a.TypeID, &contentIDs, &contentCache, &rawCache,
		&textRefs, &uriRefs, &enumRefs, &assetRefs, &revisionChain)
	if err != nil {
		return nil, err
	}

	if a.ContentIDs, err = decodeJSONMap(contentIDs); err != nil {
		return nil, fmt.Errorf("decoding field map of asset %s: %w", a.AssetID, err)
	}
	if contentCache.Valid {
		if a.ContentCache, err = decodeJSONMap(contentCache.String); err != nil {
			return nil, fmt.Errorf("decoding content cache of asset %s: %w", a.AssetID, err)
		}
	}
	if rawCache.Valid {
		raw := rawCache.String
		a.RawCache = &raw
	}
	if revisionChain.Valid {
		a.RevisionChain = revisionChain.String
	}
	if a.TextRefs, err = decodeInt64List(textRefs); err != nil {
		return nil, fmt.Errorf("decoding text refs of asset %s: %w", a.AssetID, err)
	}
	if a.URIRefs, err = decodeInt64List(uriRefs); err != nil {
		return nil, fmt.Errorf("decoding uri refs of asset %s: %w", a.AssetID, err)
	}
	if a.EnumRefs, err = decodeInt64List(enumRefs); err != nil {
		return nil, fmt.Errorf("decoding enum refs of asset %s: %w", a.AssetID, err)
	}
	if a.AssetRefs, err = decodeStringList(assetRefs); err != nil {
		return nil, fmt.Errorf("decoding asset refs of asset %s: %w", a.AssetID, err)
	}
	return a, nil
}
