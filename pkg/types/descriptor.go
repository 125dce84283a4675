package types

import (
	"errors"
	"fmt"
)

// Kind enumerates the content kinds a schema field can hold.
type Kind int

// Content kinds. The numeric values of KindText and KindURI match the wire
// encoding; KindEnum, KindAsset and KindList are encoded structurally.
const (
	KindText  Kind = 1
	KindURI   Kind = 2
	KindEnum  Kind = 3
	KindAsset Kind = 4
	KindList  Kind = 5
)

// Descriptor is the closed tagged-variant representation of a content-kind
// schema value: Text | URI | Enum(enumID) | Asset(typeID) | List(elem).
// Lists are never nested; Elem is always a non-list descriptor.
type Descriptor struct {
	Kind   Kind
	EnumID int64       // set when Kind == KindEnum
	TypeID int64       // set when Kind == KindAsset
	Elem   *Descriptor // set when Kind == KindList
}

// Schema maps field names to their content-kind descriptors.
type Schema map[string]Descriptor

// Descriptor decoding errors.
var (
	ErrBadDescriptor = errors.New("malformed content-kind descriptor")
)

// IsList reports whether the descriptor is a list kind.
func (d Descriptor) IsList() bool { return d.Kind == KindList }

// IsLeaf reports whether the descriptor resolves to a leaf unit
// (text, URI or enum item) rather than a sub-asset or list.
func (d Descriptor) IsLeaf() bool {
	return d.Kind == KindText || d.Kind == KindURI || d.Kind == KindEnum
}

// ParseDescriptor decodes the on-the-wire descriptor encoding, which must be
// preserved bit-for-bit for compatibility with existing schemas:
//
//	1                  text
//	2                  URI
//	{"3": enumID}      enum item of the given enumeration
//	n (n >= 4)         sub-asset of type n
//	[inner]            list of the wrapped non-list kind
func ParseDescriptor(wire any) (Descriptor, error) {
	switch v := wire.(type) {
	case []any:
		if len(v) != 1 {
			return Descriptor{}, fmt.Errorf("%w: list descriptor must wrap exactly one kind", ErrBadDescriptor)
		}
		elem, err := ParseDescriptor(v[0])
		if err != nil {
			return Descriptor{}, err
		}
		if elem.IsList() {
			return Descriptor{}, fmt.Errorf("%w: lists cannot be nested", ErrBadDescriptor)
		}
		return Descriptor{Kind: KindList, Elem: &elem}, nil
	case map[string]any:
		enumWire, ok := v["3"]
		if !ok || len(v) != 1 {
			return Descriptor{}, fmt.Errorf("%w: object descriptor must have the single key \"3\"", ErrBadDescriptor)
		}
		enumID, ok := toInt64(enumWire)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: enum descriptor needs a numeric enumeration id", ErrBadDescriptor)
		}
		return Descriptor{Kind: KindEnum, EnumID: enumID}, nil
	default:
		n, ok := toInt64(wire)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: %v", ErrBadDescriptor, wire)
		}
		switch {
		case n == 1:
			return Descriptor{Kind: KindText}, nil
		case n == 2:
			return Descriptor{Kind: KindURI}, nil
		case n >= 4:
			return Descriptor{Kind: KindAsset, TypeID: n}, nil
		default:
			return Descriptor{}, fmt.Errorf("%w: reserved kind %d", ErrBadDescriptor, n)
		}
	}
}

// Wire returns the on-the-wire encoding of the descriptor.
func (d Descriptor) Wire() any {
	switch d.Kind {
	case KindText:
		return int64(1)
	case KindURI:
		return int64(2)
	case KindEnum:
		return map[string]any{"3": d.EnumID}
	case KindAsset:
		return d.TypeID
	case KindList:
		return []any{d.Elem.Wire()}
	}
	return nil
}

// ParseSchema decodes a schema from its wire form, a mapping of field name
// to descriptor encoding.
func ParseSchema(wire map[string]any) (Schema, error) {
	schema := make(Schema, len(wire))
	for field, dw := range wire {
		d, err := ParseDescriptor(dw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		schema[field] = d
	}
	return schema, nil
}

// Wire returns the wire encoding of the schema.
func (s Schema) Wire() map[string]any {
	wire := make(map[string]any, len(s))
	for field, d := range s {
		wire[field] = d.Wire()
	}
	return wire
}

// toInt64 normalizes the numeric types produced by the JSON and YAML
// decoders in use (ojg yields int64, encoding/json float64, yaml int).
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
