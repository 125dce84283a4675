// Schema DDL for all tables. Asset and change identities are UUID strings;
// leaf units and type definitions use integer row ids. JSON-valued columns
// (schemas, templates, field maps, caches, reference lists) are stored as
// TEXT in their wire encoding.
package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS asset_types (
    type_id INTEGER PRIMARY KEY,
    type_name TEXT NOT NULL UNIQUE,
    parent_type_id INTEGER,
    schema TEXT NOT NULL,
    templates TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS enum_types (
    enum_id INTEGER PRIMARY KEY,
    items TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS texts (
    text_id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS uris (
    uri_id INTEGER PRIMARY KEY AUTOINCREMENT,
    uri TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS enum_items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    enum_id INTEGER NOT NULL,
    item TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
    asset_id TEXT PRIMARY KEY,
    type_id INTEGER NOT NULL,
    content_ids TEXT NOT NULL,
    content_cache TEXT,
    raw_cache TEXT,
    text_refs TEXT NOT NULL,
    uri_refs TEXT NOT NULL,
    enum_refs TEXT NOT NULL,
    asset_refs TEXT NOT NULL,
    revision_chain TEXT
);

CREATE TABLE IF NOT EXISTS changes (
    change_id TEXT PRIMARY KEY,
    asset_id TEXT NOT NULL,
    parent_id TEXT,
    change_time TEXT NOT NULL,
    field TEXT NOT NULL,
    position INTEGER NOT NULL,
    delete_count INTEGER NOT NULL,
    inserts TEXT,
    structure_cache TEXT
);

CREATE INDEX IF NOT EXISTS idx_changes_asset ON changes(asset_id);
CREATE INDEX IF NOT EXISTS idx_changes_parent ON changes(parent_id);
CREATE INDEX IF NOT EXISTS idx_assets_revision ON assets(revision_chain);
`
