package plan

import (
	"go.uber.org/zap"

	"battlecore/internal/util"
)

// Rotation is one configured skill rotation of a character template. Each
// batch lists skill-slot indices used in one turn.
type Rotation struct {
	Batches [][]int
}

type RotationSource interface {
	SkillRotations(template int) []Rotation
}

// Table is the rotation queue of one character template.
type Table struct {
	queue    [][]int
	override [][]int
}

func (t *Table) IsEmpty() bool { return len(t.queue) == 0 && len(t.override) == 0 }

// Apply enqueues every batch of r.
func (t *Table) Apply(r Rotation) {
	for _, b := range r.Batches {
		t.queue = append(t.queue, append([]int(nil), b...))
	}
}

// PushOverride queues a one-shot batch served before the rotation.
func (t *Table) PushOverride(slots []int) {
	t.override = append(t.override, append([]int(nil), slots...))
}

// Next pops the next batch, overrides first. It never returns nil.
func (t *Table) Next() []int {
	if len(t.override) > 0 {
		b := t.override[0]
		t.override = t.override[1:]
		return b
	}
	if len(t.queue) > 0 {
		b := t.queue[0]
		t.queue = t.queue[1:]
		return b
	}
	return []int{}
}

// AutoCaster produces skill-slot batches for AI-driven characters.
type AutoCaster struct {
	source RotationSource
	rng    util.Rand
	log    *zap.Logger
	tables map[int]*Table
}

func NewAutoCaster(source RotationSource, rng util.Rand, log *zap.Logger) *AutoCaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &AutoCaster{source: source, rng: rng, log: log, tables: map[int]*Table{}}
}

func (a *AutoCaster) table(template int) *Table {
	t, ok := a.tables[template]
	if !ok {
		t = &Table{}
		a.tables[template] = t
	}
	return t
}

// GeneratePlan returns the skill-slot batch template uses this turn,
// refilling the template's table from a random rotation when it ran dry.
func (a *AutoCaster) GeneratePlan(template int) []int {
	t := a.table(template)
	if t.IsEmpty() && a.source != nil {
		rotations := a.source.SkillRotations(template)
		if i := util.Pick(a.rng, len(rotations)); i >= 0 {
			t.Apply(rotations[i])
			a.log.Debug("rotation refilled", zap.Int("template", template), zap.Int("rotation", i))
		} else {
			a.log.Warn("no skill rotation configured", zap.Int("template", template))
		}
	}
	return t.Next()
}

func (a *AutoCaster) PushOverride(template int, slots []int) {
	a.table(template).PushOverride(slots)
}

// Reset forgets every table.
func (a *AutoCaster) Reset() { a.tables = map[int]*Table{} }
