package types

// AssetType describes one node type of the content tree: its schema (field
// name to content-kind descriptor), an optional parent type for one-level
// subtyping, and named output templates. Asset types are configuration data,
// loaded by the fixture loader and read-only at runtime.
type AssetType struct {
	TypeID    int64             // Stable numeric id; also the wire encoding for Asset(typeID) descriptors, so always >= 4.
	Name      string            // Unique type name.
	ParentID  int64             // Parent type id; 0 means no parent.
	Schema    Schema            // Field name -> descriptor.
	Templates map[string]string // Template name -> template string.
}

// Template returns the named template string, or ok=false if the type has
// no template of that name.
func (t *AssetType) Template(name string) (string, bool) {
	tpl, ok := t.Templates[name]
	return tpl, ok
}

// EnumType defines an enumeration: the closed set of items an enum leaf of
// this enumeration may hold.
type EnumType struct {
	EnumID int64
	Items  []string
}

// HasItem reports whether the given value is a member of the enumeration.
func (e *EnumType) HasItem(item string) bool {
	for _, it := range e.Items {
		if it == item {
			return true
		}
	}
	return false
}
