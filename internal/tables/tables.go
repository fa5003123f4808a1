// Package tables is the read-only data context a battle resolves against. It
// is built once from the loaded config and never mutated afterwards.
package tables

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"battlecore/internal/combat"
	"battlecore/internal/config"
	"battlecore/internal/effect"
	"battlecore/internal/plan"
)

// ErrInvalid wraps every validation failure of Build.
var ErrInvalid = errors.New("invalid table data")

type Skill struct {
	ID          int
	Name        string
	AttackType  string
	Side        combat.Side
	Definitions []int
}

// Definition binds a target rule to formulas and effects.
type Definition struct {
	ID       int
	Target   combat.TargetRule
	Formulas []int
	Effects  []effect.Definition
}

type Formula struct {
	ID         int
	Expr       string
	AttackType string
}

type Part struct {
	ID       int
	Name     string
	MaxHP    int
	Weakness []string
}

type Template struct {
	ID      int
	Name    string
	MaxHP   int
	Attack  int
	Defense int
	Speed   int
	Skills  []int
	Parts   []Part
}

type Data struct {
	skills      map[int]Skill
	definitions map[int]Definition
	formulas    map[int]Formula
	formulaIDs  []int
	effects     map[effect.Code]effect.Format
	templates   map[int]Template
	rotations   map[int][]plan.Rotation
	encounter   config.EncounterConfig
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Build validates cfg and indexes it.
func Build(cfg *config.Tables) (*Data, error) {
	if cfg == nil {
		return nil, invalid("no tables")
	}
	d := &Data{
		skills:      map[int]Skill{},
		definitions: map[int]Definition{},
		formulas:    map[int]Formula{},
		effects:     map[effect.Code]effect.Format{},
		templates:   map[int]Template{},
		rotations:   map[int][]plan.Rotation{},
		encounter:   cfg.Encounter,
	}
	steps := []func(*config.Tables) error{
		d.buildEffects,
		d.buildFormulas,
		d.buildDefinitions,
		d.buildSkills,
		d.buildTemplates,
		d.buildParts,
		d.buildRotations,
		d.checkEncounter,
	}
	for _, step := range steps {
		if err := step(cfg); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Data) buildEffects(cfg *config.Tables) error {
	for _, e := range cfg.Effects.Effects {
		code := effect.Code(e.Code)
		if _, dup := d.effects[code]; dup {
			return invalid("effect %d: duplicate code", e.Code)
		}
		t, err := effect.ParseStatusEffectType(e.Type)
		if err != nil {
			return invalid("effect %d: %v", e.Code, err)
		}
		if e.MaxStack < 0 || e.Turns < 0 {
			return invalid("effect %d: negative max_stack or turns", e.Code)
		}
		d.effects[code] = effect.Format{
			Code:       code,
			Name:       e.Name,
			Type:       t,
			MaxStack:   e.MaxStack,
			Turns:      e.Turns,
			TickDamage: e.TickDamage,
		}
	}
	return nil
}

func (d *Data) buildFormulas(cfg *config.Tables) error {
	for _, f := range cfg.Formulas.Formulas {
		if _, dup := d.formulas[f.ID]; dup {
			return invalid("formula %d: duplicate id", f.ID)
		}
		if strings.TrimSpace(f.Expr) == "" {
			return invalid("formula %d: empty expr", f.ID)
		}
		d.formulas[f.ID] = Formula{ID: f.ID, Expr: f.Expr, AttackType: f.AttackType}
		d.formulaIDs = append(d.formulaIDs, f.ID)
	}
	return nil
}

func (d *Data) buildDefinitions(cfg *config.Tables) error {
	for _, def := range cfg.Skills.Definitions {
		if _, dup := d.definitions[def.ID]; dup {
			return invalid("definition %d: duplicate id", def.ID)
		}
		rule, err := combat.ParseTargetRule(def.Target)
		if err != nil {
			return invalid("definition %d: %v", def.ID, err)
		}
		for _, id := range def.Formulas {
			if _, ok := d.formulas[id]; !ok {
				return invalid("definition %d: unknown formula %d", def.ID, id)
			}
		}
		out := Definition{ID: def.ID, Target: rule, Formulas: slices.Clone(def.Formulas)}
		for _, e := range def.Effects {
			if _, ok := d.effects[effect.Code(e.Code)]; !ok {
				return invalid("definition %d: unknown effect %d", def.ID, e.Code)
			}
			out.Effects = append(out.Effects, effect.Definition{Code: effect.Code(e.Code), Turns: e.Turns})
		}
		d.definitions[def.ID] = out
	}
	return nil
}

func (d *Data) buildSkills(cfg *config.Tables) error {
	for _, s := range cfg.Skills.Skills {
		if s.ID <= 0 {
			return invalid("skill %d: id must be positive", s.ID)
		}
		if _, dup := d.skills[s.ID]; dup {
			return invalid("skill %d: duplicate id", s.ID)
		}
		side, err := combat.ParseSide(s.Side)
		if err != nil {
			return invalid("skill %d: %v", s.ID, err)
		}
		for _, id := range s.Definitions {
			if _, ok := d.definitions[id]; !ok {
				return invalid("skill %d: unknown definition %d", s.ID, id)
			}
		}
		d.skills[s.ID] = Skill{
			ID:          s.ID,
			Name:        s.Name,
			AttackType:  s.AttackType,
			Side:        side,
			Definitions: slices.Clone(s.Definitions),
		}
	}
	return nil
}

func (d *Data) buildTemplates(cfg *config.Tables) error {
	for _, c := range cfg.Characters.Characters {
		if _, dup := d.templates[c.Template]; dup {
			return invalid("character %d: duplicate template", c.Template)
		}
		if c.MaxHP <= 0 {
			return invalid("character %d: max_hp must be positive", c.Template)
		}
		for _, id := range c.Skills {
			if _, ok := d.skills[id]; !ok {
				return invalid("character %d: unknown skill %d", c.Template, id)
			}
		}
		d.templates[c.Template] = Template{
			ID:      c.Template,
			Name:    c.Name,
			MaxHP:   c.MaxHP,
			Attack:  c.Attack,
			Defense: c.Defense,
			Speed:   c.Speed,
			Skills:  slices.Clone(c.Skills),
		}
	}
	return nil
}

func (d *Data) buildParts(cfg *config.Tables) error {
	for _, p := range cfg.Parts.Parts {
		t, ok := d.templates[p.Template]
		if !ok {
			return invalid("part %d: unknown template %d", p.ID, p.Template)
		}
		if p.ID < 0 {
			return invalid("part %d: id must not be negative", p.ID)
		}
		if _, dup := t.part(p.ID); dup {
			return invalid("part %d: duplicate on template %d", p.ID, p.Template)
		}
		t.Parts = append(t.Parts, Part{ID: p.ID, Name: p.Name, MaxHP: p.MaxHP, Weakness: slices.Clone(p.Weakness)})
		d.templates[p.Template] = t
	}
	return nil
}

func (d *Data) buildRotations(cfg *config.Tables) error {
	for i, r := range cfg.Rotations.Rotations {
		if _, ok := d.templates[r.Template]; !ok {
			return invalid("rotation %d: unknown template %d", i, r.Template)
		}
		batches := make([][]int, 0, len(r.Batches))
		for _, b := range r.Batches {
			batches = append(batches, slices.Clone(b))
		}
		d.rotations[r.Template] = append(d.rotations[r.Template], plan.Rotation{Batches: batches})
	}
	return nil
}

func (d *Data) checkEncounter(cfg *config.Tables) error {
	slots := append(slices.Clone(cfg.Encounter.Allies), cfg.Encounter.Enemies...)
	for _, s := range slots {
		if _, ok := d.templates[s.Template]; !ok {
			return invalid("encounter: unknown template %d", s.Template)
		}
	}
	return nil
}

func (t Template) part(id int) (Part, bool) {
	for _, p := range t.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return Part{}, false
}

// ---- lookups ----

func (d *Data) Skill(id int) (Skill, bool) {
	s, ok := d.skills[id]
	return s, ok
}

func (d *Data) Definition(id int) (Definition, bool) {
	def, ok := d.definitions[id]
	return def, ok
}

func (d *Data) Formula(id int) (Formula, bool) {
	f, ok := d.formulas[id]
	return f, ok
}

// Formulas lists every formula in file order.
func (d *Data) Formulas() []Formula {
	out := make([]Formula, 0, len(d.formulaIDs))
	for _, id := range d.formulaIDs {
		out = append(out, d.formulas[id])
	}
	return out
}

func (d *Data) EffectFormat(code effect.Code) (effect.Format, bool) {
	f, ok := d.effects[code]
	return f, ok
}

func (d *Data) Template(id int) (Template, bool) {
	t, ok := d.templates[id]
	return t, ok
}

func (d *Data) Part(template, part int) (Part, bool) {
	t, ok := d.templates[template]
	if !ok {
		return Part{}, false
	}
	return t.part(part)
}

// IsWeakness reports whether attackType is a declared weakness of the part.
func (d *Data) IsWeakness(template, part int, attackType string) bool {
	if attackType == "" {
		return false
	}
	p, ok := d.Part(template, part)
	if !ok {
		return false
	}
	for _, w := range p.Weakness {
		if strings.EqualFold(w, attackType) {
			return true
		}
	}
	return false
}

func (d *Data) SkillRotations(template int) []plan.Rotation {
	return d.rotations[template]
}

// SkillAt maps a template's skill-slot index to a skill id.
func (d *Data) SkillAt(template, slot int) (int, bool) {
	t, ok := d.templates[template]
	if !ok || slot < 0 || slot >= len(t.Skills) {
		return 0, false
	}
	return t.Skills[slot], true
}

func (d *Data) Encounter() config.EncounterConfig { return d.encounter }
