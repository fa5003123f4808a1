package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeMinimalAssets(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "effects.yaml", "effects:\n  - code: 1\n    name: Poison\n    type: Stack_Effect\n    max_stack: 3\n    turns: 2\n")
	writeFile(t, dir, "formulas.yaml", "formulas:\n  - id: 1\n    expr: \"caster.atk\"\n")
	writeFile(t, dir, "skills.yaml", "skills:\n  - id: 10\n    definitions: [100]\ndefinitions:\n  - id: 100\n    target: single\n    formulas: [1]\n    effects:\n      - code: 1\n        turns: 3\n")
	writeFile(t, dir, "characters.yaml", "characters:\n  - template: 1\n    name: Hero\n    max_hp: 10\n    skills: [10]\n")
	writeFile(t, dir, "rotations.yaml", "rotations:\n  - template: 1\n    batches: [[0], [0, 0]]\n")
	writeFile(t, dir, "encounter.yaml", "name: test\nallies:\n  - template: 1\nenemies:\n  - template: 1\n")
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeMinimalAssets(t, dir)

	tables, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tables.Effects.Effects[0].Type; got != "Stack_Effect" {
		t.Fatalf("effect type = %q", got)
	}
	def := tables.Skills.Definitions[0]
	if def.Target != "single" || def.Effects[0].Turns != 3 {
		t.Fatalf("definition = %+v", def)
	}
	if got := tables.Rotations.Rotations[0].Batches; len(got) != 2 || len(got[1]) != 2 {
		t.Fatalf("batches = %v", got)
	}
	if len(tables.Parts.Parts) != 0 {
		t.Fatalf("parts should be empty without parts.yaml")
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeMinimalAssets(t, dir)
	if err := os.Remove(filepath.Join(dir, "skills.yaml")); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAll(dir)
	if err == nil || !strings.Contains(err.Error(), "skills.yaml") {
		t.Fatalf("expected skills.yaml error, got %v", err)
	}
}

func TestLoadAllBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeMinimalAssets(t, dir)
	writeFile(t, dir, "parts.yaml", "parts: [unterminated\n")
	if _, err := LoadAll(dir); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadAllRepositoryAssets(t *testing.T) {
	tables, err := LoadAll(filepath.Join("..", "..", "assets"))
	if err != nil {
		t.Fatalf("load assets: %v", err)
	}
	if len(tables.Encounter.Allies) == 0 || len(tables.Encounter.Enemies) == 0 {
		t.Fatalf("encounter has empty teams")
	}
}
