// Package report records what happened during a battle as an ordered tree of
// entries that a presentation layer can play back.
package report

import "encoding/json"

// Type tags an entry.
type Type string

const (
	TurnStart        Type = "turn_start"
	EffectTurnStart  Type = "effect_turn_start"
	EffectTick       Type = "effect_tick"
	EffectExpired    Type = "effect_expired"
	EffectMaxStack   Type = "effect_max_stack"
	PlanResolve      Type = "plan_resolve"
	ActiveDefinition Type = "active_definition"
	Damage           Type = "damage"
	PartDamage       Type = "part_damage"
	ApplyEffect      Type = "apply_effect"
	BattleEnd        Type = "battle_end"
)

// EffectStatus is the state of one effect code on a combatant after a change.
type EffectStatus struct {
	Code  int `json:"code"`
	Stack int `json:"stack"`
	Turn  int `json:"turn"`
}

type Entry struct {
	Type       Type          `json:"type"`
	Actor      uint32        `json:"actor,omitempty"`
	Target     uint32        `json:"target,omitempty"`
	Targets    []uint32      `json:"targets,omitempty"`
	Skill      int           `json:"skill,omitempty"`
	Definition int           `json:"definition,omitempty"`
	Amount     int           `json:"amount,omitempty"`
	HP         int           `json:"hp,omitempty"`
	Part       int           `json:"part,omitempty"`
	Effect     *EffectStatus `json:"effect,omitempty"`
	AddResult  string        `json:"add_result,omitempty"`
	Killed     bool          `json:"killed,omitempty"`
	Note       string        `json:"note,omitempty"`
	Children   []*Entry      `json:"children,omitempty"`
}

// Add appends a child entry.
func (e *Entry) Add(child *Entry) {
	if child != nil {
		e.Children = append(e.Children, child)
	}
}

// Walk visits e and every descendant depth first.
func (e *Entry) Walk(fn func(*Entry)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Writer accumulates entries. Entries added while a scope is open become
// children of the innermost open scope.
type Writer struct {
	entries []*Entry
	stack   []*Entry
}

func NewWriter() *Writer { return &Writer{} }

// Add appends e at the current nesting level. A nil writer discards it.
func (w *Writer) Add(e *Entry) {
	if w == nil || e == nil {
		return
	}
	if n := len(w.stack); n > 0 {
		w.stack[n-1].Add(e)
		return
	}
	w.entries = append(w.entries, e)
}

// Scope is an open group entry; Close must be called on every exit path.
type Scope struct {
	w      *Writer
	entry  *Entry
	closed bool
}

// Begin adds e and makes it the parent of subsequent entries until the
// returned scope is closed.
func (w *Writer) Begin(e *Entry) *Scope {
	if w == nil {
		return &Scope{entry: e}
	}
	w.Add(e)
	w.stack = append(w.stack, e)
	return &Scope{w: w, entry: e}
}

func (s *Scope) Entry() *Entry { return s.entry }

// Close pops the scope. Closing twice is a no-op. Scopes opened inside s and
// still open are closed as well.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.w == nil {
		return
	}
	for i := len(s.w.stack) - 1; i >= 0; i-- {
		if s.w.stack[i] == s.entry {
			s.w.stack = s.w.stack[:i]
			return
		}
	}
}

// Group runs fn inside a scope opened on e.
func (w *Writer) Group(e *Entry, fn func()) *Entry {
	s := w.Begin(e)
	defer s.Close()
	fn()
	return e
}

// Flush closes any open scope and returns the accumulated top-level entries,
// leaving the writer empty.
func (w *Writer) Flush() []*Entry {
	w.stack = nil
	out := w.entries
	w.entries = nil
	return out
}

// Len is the number of top-level entries.
func (w *Writer) Len() int { return len(w.entries) }

// MarshalPretty renders v as indented JSON.
func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
