// This file implements schema validation of input trees. Validation is a
// pure read: it consults the type registry and the asset store but performs
// no writes, and failures always carry the offending subtree.
package engine

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// Validate checks an input tree against its declared type's schema.
// expectedTypeID constrains the tree's type to that id or a direct child of
// it; zero means unconstrained. A tree carrying an id but no type is an
// existing-asset reference: existence is checked and validation
// short-circuits.
func (e *Engine) Validate(tree map[string]any, expectedTypeID int64) error {
	if rawID, ok := tree["id"]; ok {
		id, isString := rawID.(string)
		if !isString {
			return types.NewSchemaError(tree, "The id '%v' is not a valid uuid (v4).", rawID)
		}
		parsed, err := uuid.Parse(id)
		if err != nil || parsed.Version() != 4 {
			return types.NewSchemaError(tree, "The id '%s' is not a valid uuid (v4).", id)
		}
		if _, err := e.assets.Get(id); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return types.NewSchemaError(tree, "An Asset with id %s does not exist.", id)
			}
			return err
		}
		if _, hasType := tree["type"]; !hasType {
			return nil
		}
	}

	typeName, ok := tree["type"].(string)
	if !ok {
		return types.NewSchemaError(tree, "Missing key in Asset: 'type'")
	}
	t, err := e.typeByName(typeName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewSchemaError(tree, "Unknown AssetType: %s", typeName)
		}
		return err
	}
	if expectedTypeID != 0 && t.TypeID != expectedTypeID && t.ParentID != expectedTypeID {
		return types.NewSchemaError(tree,
			"Expected an AssetType with id %d but got '%s' with id %d.",
			expectedTypeID, t.Name, t.TypeID)
	}

	for field, d := range t.Schema {
		value, present := tree[field]
		if !present {
			return types.NewSchemaError(tree, "Missing key '%s' in AssetType '%s'.", field, t.Name)
		}
		if d.IsList() {
			list, isList := value.([]any)
			if !isList {
				return types.NewSchemaError(tree,
					"The Schema of AssetType '%s' demands the content for key '%s' to be a List.",
					t.Name, field)
			}
			for _, element := range list {
				if err := e.validateValue(*d.Elem, element, t.Name, field, element); err != nil {
					return err
				}
			}
			continue
		}
		subtree := any(tree)
		if d.Kind == types.KindAsset {
			subtree = value
		}
		if err := e.validateValue(d, value, t.Name, field, subtree); err != nil {
			return err
		}
	}
	return nil
}

// validateValue checks one value against a non-list descriptor. The subtree
// argument is what a resulting SchemaError reports as the offending input.
func (e *Engine) validateValue(d types.Descriptor, value any, typeName, field string, subtree any) error {
	switch d.Kind {
	case types.KindText:
		if _, ok := value.(string); !ok {
			return types.NewSchemaError(subtree,
				"The Schema of AssetType '%s' demands the content for key '%s' to be a string.",
				typeName, field)
		}
	case types.KindURI:
		if _, ok := value.(string); !ok {
			return types.NewSchemaError(subtree,
				"The Schema of AssetType '%s' demands the content for key '%s' to be a string with a URI.",
				typeName, field)
		}
	case types.KindEnum:
		item, ok := value.(string)
		if !ok {
			return types.NewSchemaError(subtree,
				"The Schema of AssetType '%s' demands the content for key '%s' to be the enum_type with id=%d.",
				typeName, field, d.EnumID)
		}
		enumType, err := e.getEnumType(d.EnumID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return types.NewSchemaError(subtree, "Unknown EnumType: %v.", value)
			}
			return err
		}
		if !enumType.HasItem(item) {
			return types.NewSchemaError(subtree,
				"The Schema of AssetType '%s' demands the content for key '%s' to be the enum_type with id=%d.",
				typeName, field, d.EnumID)
		}
	case types.KindAsset:
		sub, ok := value.(map[string]any)
		if !ok {
			return types.NewSchemaError(subtree,
				"The Schema of AssetType '%s' demands the content for key '%s' to be an Asset."+
					" Assets are saved as JSON-objects with an inner structure matching the schema"+
					" of their type.",
				typeName, field)
		}
		return e.Validate(sub, d.TypeID)
	}
	return nil
}
