// Tests for the content-kind descriptor wire codec.
package types

import (
	"reflect"
	"testing"
)

func TestParseDescriptor_Scalars(t *testing.T) {
	d, err := ParseDescriptor(int64(1))
	if err != nil {
		t.Fatalf("parse text: %v", err)
	}
	if d.Kind != KindText {
		t.Errorf("expected KindText, got %v", d.Kind)
	}

	d, err = ParseDescriptor(int64(2))
	if err != nil {
		t.Fatalf("parse uri: %v", err)
	}
	if d.Kind != KindURI {
		t.Errorf("expected KindURI, got %v", d.Kind)
	}

	// encoding/json hands descriptors over as float64.
	d, err = ParseDescriptor(float64(7))
	if err != nil {
		t.Fatalf("parse asset: %v", err)
	}
	if d.Kind != KindAsset || d.TypeID != 7 {
		t.Errorf("expected Asset(7), got %+v", d)
	}
}

func TestParseDescriptor_Enum(t *testing.T) {
	d, err := ParseDescriptor(map[string]any{"3": int64(12)})
	if err != nil {
		t.Fatalf("parse enum: %v", err)
	}
	if d.Kind != KindEnum || d.EnumID != 12 {
		t.Errorf("expected Enum(12), got %+v", d)
	}
}

func TestParseDescriptor_List(t *testing.T) {
	d, err := ParseDescriptor([]any{int64(1)})
	if err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if !d.IsList() || d.Elem.Kind != KindText {
		t.Errorf("expected List(Text), got %+v", d)
	}
}

func TestParseDescriptor_Malformed(t *testing.T) {
	malformed := []any{
		int64(3),                      // bare 3 is reserved
		int64(0),                      // below the kind range
		[]any{},                       // empty list wrapper
		[]any{int64(1), int64(2)},     // list wrapper with two kinds
		[]any{[]any{int64(1)}},        // nested list
		map[string]any{"4": int64(9)}, // wrong object key
		"text",                        // not a descriptor at all
	}
	for _, wire := range malformed {
		if _, err := ParseDescriptor(wire); err == nil {
			t.Errorf("expected error for %v", wire)
		}
	}
}

func TestDescriptor_WireRoundTrip(t *testing.T) {
	wires := []any{
		int64(1),
		int64(2),
		map[string]any{"3": int64(5)},
		int64(9),
		[]any{int64(2)},
		[]any{map[string]any{"3": int64(5)}},
		[]any{int64(42)},
	}
	for _, wire := range wires {
		d, err := ParseDescriptor(wire)
		if err != nil {
			t.Fatalf("parse %v: %v", wire, err)
		}
		if got := d.Wire(); !reflect.DeepEqual(got, wire) {
			t.Errorf("round trip of %v produced %v", wire, got)
		}
	}
}

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema(map[string]any{
		"title":    int64(1),
		"link":     int64(2),
		"language": map[string]any{"3": int64(1)},
		"blocks":   []any{int64(6)},
	})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	if schema["title"].Kind != KindText {
		t.Errorf("title: expected text, got %+v", schema["title"])
	}
	if schema["blocks"].Elem.TypeID != 6 {
		t.Errorf("blocks: expected List(Asset(6)), got %+v", schema["blocks"])
	}
	if !reflect.DeepEqual(schema.Wire()["language"], map[string]any{"3": int64(1)}) {
		t.Errorf("language wire form mangled: %v", schema.Wire()["language"])
	}
}
