// This file implements YAML fixture loading for startup. Fixtures carry the
// type system (enumeration definitions and asset type definitions) and are
// safe to load repeatedly: rows are matched by enum id and type name.
package sqlite

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/strata/pkg/types"
)

// fixtureDocument is the YAML layout of a fixture file.
type fixtureDocument struct {
	EnumTypes []struct {
		EnumID int64    `yaml:"enum_id"`
		Items  []string `yaml:"items"`
	} `yaml:"enum_types"`
	AssetTypes []struct {
		TypeID    int64             `yaml:"type_id"`
		Name      string            `yaml:"name"`
		Parent    string            `yaml:"parent"`
		Schema    map[string]any    `yaml:"schema"`
		Templates map[string]string `yaml:"templates"`
	} `yaml:"asset_types"`
}

// LoadFixtures reads a YAML fixture file and upserts its enumeration and
// asset type definitions. Asset types may name a parent type; the parent must
// be defined earlier in the same file or already be stored.
func (b *Backend) LoadFixtures(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrCupboardDetached
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture file: %w", err)
	}
	var doc fixtureDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing fixture file %s: %w", path, err)
	}

	enumTypes := b.tables[types.EnumTypesTable]
	assetTypes := b.tables[types.AssetTypesTable]

	for _, e := range doc.EnumTypes {
		enumType := &types.EnumType{EnumID: e.EnumID, Items: e.Items}
		var id string
		if e.EnumID != 0 {
			id = strconv.FormatInt(e.EnumID, 10)
		}
		if _, err := enumTypes.Set(id, enumType); err != nil {
			return fmt.Errorf("loading enum type %d: %w", e.EnumID, err)
		}
	}

	typeIDs := make(map[string]int64)
	for _, t := range doc.AssetTypes {
		if t.Name == "" {
			return fmt.Errorf("fixture asset type without a name in %s", path)
		}
		schema, err := types.ParseSchema(t.Schema)
		if err != nil {
			return fmt.Errorf("loading asset type %q: %w", t.Name, err)
		}

		assetType := &types.AssetType{
			TypeID:    t.TypeID,
			Name:      t.Name,
			Schema:    schema,
			Templates: t.Templates,
		}
		if t.Parent != "" {
			parentID, err := resolveParentType(assetTypes, typeIDs, t.Parent)
			if err != nil {
				return fmt.Errorf("loading asset type %q: %w", t.Name, err)
			}
			assetType.ParentID = parentID
		}
		if assetType.TypeID == 0 {
			if existing, err := lookupTypeByName(assetTypes, t.Name); err == nil {
				assetType.TypeID = existing.TypeID
			}
		}

		var id string
		if assetType.TypeID != 0 {
			id = strconv.FormatInt(assetType.TypeID, 10)
		}
		if _, err := assetTypes.Set(id, assetType); err != nil {
			return fmt.Errorf("loading asset type %q: %w", t.Name, err)
		}
		typeIDs[t.Name] = assetType.TypeID
	}

	return nil
}

func resolveParentType(assetTypes types.Table, typeIDs map[string]int64, name string) (int64, error) {
	if id, ok := typeIDs[name]; ok {
		return id, nil
	}
	parent, err := lookupTypeByName(assetTypes, name)
	if err != nil {
		return 0, fmt.Errorf("parent type %q: %w", name, err)
	}
	return parent.TypeID, nil
}

func lookupTypeByName(assetTypes types.Table, name string) (*types.AssetType, error) {
	matches, err := assetTypes.Fetch(types.Filter{"name": name})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, types.ErrNotFound
	}
	return matches[0].(*types.AssetType), nil
}
