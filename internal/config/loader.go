package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Tables is every static data file of an assets directory.
type Tables struct {
	Effects    EffectsConfig
	Formulas   FormulasConfig
	Skills     SkillsConfig
	Characters CharactersConfig
	Parts      PartsConfig
	Rotations  RotationsConfig
	Encounter  EncounterConfig
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// loadOptional is loadYAML that leaves out untouched when the file is absent.
func loadOptional(path string, out any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return loadYAML(path, out)
}

func LoadAll(dir string) (*Tables, error) {
	var t Tables
	required := []struct {
		name string
		out  any
	}{
		{"effects.yaml", &t.Effects},
		{"formulas.yaml", &t.Formulas},
		{"skills.yaml", &t.Skills},
		{"characters.yaml", &t.Characters},
		{"rotations.yaml", &t.Rotations},
		{"encounter.yaml", &t.Encounter},
	}
	for _, f := range required {
		if err := loadYAML(filepath.Join(dir, f.name), f.out); err != nil {
			return nil, fmt.Errorf("load %s: %w", f.name, err)
		}
	}
	if err := loadOptional(filepath.Join(dir, "parts.yaml"), &t.Parts); err != nil {
		return nil, fmt.Errorf("load parts.yaml: %w", err)
	}
	return &t, nil
}
