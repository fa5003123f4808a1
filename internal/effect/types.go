// Package effect stores status effects per combatant and applies the four
// stacking policies.
package effect

import (
	"fmt"
	"strings"

	"battlecore/internal/combat"
	"battlecore/internal/report"
)

// Code is an effect's unique code in the static effect table.
type Code int

// StatusEffectType selects the stacking policy of an effect code.
type StatusEffectType int

const (
	CumEffect StatusEffectType = iota
	HybridStackEffect
	OnceEffect
	StackEffect

	typeCount
)

var typeNames = [typeCount]string{"Cum_Effect", "HybridStack_Effect", "Once_Effect", "Stack_Effect"}

func (t StatusEffectType) String() string {
	if t >= 0 && t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("StatusEffectType(%d)", int(t))
}

// ParseStatusEffectType accepts the table names ("Stack_Effect") case-insensitively.
func ParseStatusEffectType(s string) (StatusEffectType, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return StatusEffectType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status effect type %q", s)
}

// Format is the static description of an effect code.
type Format struct {
	Code       Code
	Name       string
	Type       StatusEffectType
	MaxStack   int
	Turns      int
	TickDamage int
}

type FormatSource interface {
	EffectFormat(code Code) (Format, bool)
}

type AddResult int

const (
	Success AddResult = iota
	MaxStack
	AddFail
)

func (r AddResult) String() string {
	switch r {
	case Success:
		return "success"
	case MaxStack:
		return "max_stack"
	case AddFail:
		return "add_fail"
	}
	return fmt.Sprintf("AddResult(%d)", int(r))
}

// Definition is an effect attached to a skill definition. Turns of zero
// falls back to the format's duration.
type Definition struct {
	Code  Code
	Turns int
}

type Status struct {
	Code  Code
	Stack int
	Turn  int
}

// Hooks are the per-effect side effects. Implementations write whatever they
// do into w, which may be nil.
type Hooks interface {
	Activate(inst *Instance, res AddResult, w *report.Writer)
	MaxStackReached(inst *Instance, w *report.Writer)
	Turn(inst *Instance, w *report.Writer)
}

type NopHooks struct{}

func (NopHooks) Activate(*Instance, AddResult, *report.Writer) {}
func (NopHooks) MaxStackReached(*Instance, *report.Writer)     {}
func (NopHooks) Turn(*Instance, *report.Writer)                {}

// Instance is one applied effect.
type Instance struct {
	Caster combat.Handle
	Target combat.Handle
	Code   Code
	Format Format
	Stack  int
	Turns  int

	hooks Hooks
}

func NewInstance(caster, target combat.Handle, format Format, turns int, hooks Hooks) *Instance {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Instance{
		Caster: caster,
		Target: target,
		Code:   format.Code,
		Format: format,
		Stack:  1,
		Turns:  turns,
		hooks:  hooks,
	}
}

// Advance runs the turn hook and consumes one turn. It reports whether turns
// remain.
func (i *Instance) Advance(w *report.Writer) bool {
	i.hooks.Turn(i, w)
	i.Turns--
	return i.Turns > 0
}

func (i *Instance) Activate(res AddResult, w *report.Writer) { i.hooks.Activate(i, res, w) }

func (i *Instance) reachedMaxStack(w *report.Writer) { i.hooks.MaxStackReached(i, w) }
