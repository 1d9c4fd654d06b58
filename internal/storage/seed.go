package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Its-Zach/grandline/pkg/types"
)

// ReferenceSeeder is implemented by stores that can load reference rows.
// Seeding uses insert-if-absent semantics: existing rows are never modified,
// so a seed file can be applied on every startup.
type ReferenceSeeder interface {
	SeedReference(ctx context.Context, islands, characters []types.NamedEntity) error
}

// SeedFile is the YAML layout of a reference-data seed file.
type SeedFile struct {
	Islands    []seedEntity `yaml:"islands"`
	Characters []seedEntity `yaml:"characters"`
}

type seedEntity struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// LoadSeedFile parses a YAML seed file of islands and characters.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: failed to read %s: %w", path, err)
	}

	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("seed: failed to parse %s: %w", path, err)
	}

	for _, e := range append(append([]seedEntity{}, sf.Islands...), sf.Characters...) {
		if e.ID <= 0 || e.Name == "" {
			return nil, fmt.Errorf("seed: entry requires a positive id and a name, got id=%d name=%q", e.ID, e.Name)
		}
	}

	return &sf, nil
}

// ApplySeedFile loads the seed file at path and applies it to the store.
// Returns an error if the store does not support seeding.
func ApplySeedFile(ctx context.Context, store ReadingStore, path string) error {
	seeder, ok := store.(ReferenceSeeder)
	if !ok {
		return fmt.Errorf("seed: store %T does not support reference seeding", store)
	}

	sf, err := LoadSeedFile(path)
	if err != nil {
		return err
	}

	return seeder.SeedReference(ctx, sf.islands(), sf.characters())
}

func (sf *SeedFile) islands() []types.NamedEntity {
	return toEntities(sf.Islands)
}

func (sf *SeedFile) characters() []types.NamedEntity {
	return toEntities(sf.Characters)
}

func toEntities(in []seedEntity) []types.NamedEntity {
	out := make([]types.NamedEntity, 0, len(in))
	for _, e := range in {
		out = append(out, types.NamedEntity{ID: e.ID, Name: e.Name})
	}
	return out
}
