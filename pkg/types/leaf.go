package types

// Leaf units hold immutable scalar content. A content change always creates
// a new leaf row; existing rows are never overwritten in place. Orphaned
// rows may remain, there is no garbage collection.

// Text is a plain text leaf unit.
type Text struct {
	TextID int64
	Text   string
}

// URIElement is a URI leaf unit.
type URIElement struct {
	URIID int64
	URI   string
}

// EnumItem is an enumerated-value leaf unit. Item must be a member of the
// enumeration identified by EnumID.
type EnumItem struct {
	ItemID int64
	EnumID int64
	Item   string
}
