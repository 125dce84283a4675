package types

// Standard table names for Cupboard.GetTable.
const (
	AssetTypesTable = "asset_types"
	EnumTypesTable  = "enum_types"
	TextsTable      = "texts"
	URIsTable       = "uris"
	EnumItemsTable  = "enum_items"
	AssetsTable     = "assets"
	ChangesTable    = "changes"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	AssetTypesTable,
	EnumTypesTable,
	TextsTable,
	URIsTable,
	EnumItemsTable,
	AssetsTable,
	ChangesTable,
}
