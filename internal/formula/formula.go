// Package formula evaluates damage formulas written as Lua expressions over
// the caster and target stats.
package formula

import (
	"errors"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/tables"
)

var ErrUnknownFormula = errors.New("unknown formula")

// compiled functions live in this global table, keyed by formula id
const registryName = "__formulas"

// Engine owns one Lua state. It is not safe for concurrent use.
type Engine struct {
	state *lua.State
	known map[int]bool
	log   *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	state := lua.NewState()
	lua.OpenLibraries(state)
	state.NewTable()
	state.SetGlobal(registryName)
	return &Engine{state: state, known: map[int]bool{}, log: log}
}

// Compile registers expr under id. The expression sees two tables, caster
// and target, with the fields hp, max_hp, atk, def, spd, handle, template and
// dead.
func (e *Engine) Compile(id int, expr string) error {
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	chunk := fmt.Sprintf("return function(caster, target) return (%s) end", expr)
	if err := lua.LoadString(l, chunk); err != nil {
		return fmt.Errorf("compile formula %d: %w", id, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return fmt.Errorf("compile formula %d: %w", id, err)
	}
	if !l.IsFunction(-1) {
		return fmt.Errorf("compile formula %d: chunk did not produce a function", id)
	}
	l.Global(registryName)
	l.PushValue(-2)
	l.RawSetInt(-2, id)
	e.known[id] = true
	return nil
}

// CompileAll compiles every formula of the data context.
func (e *Engine) CompileAll(formulas []tables.Formula) error {
	for _, f := range formulas {
		if err := e.Compile(f.ID, f.Expr); err != nil {
			return err
		}
	}
	e.log.Debug("formulas compiled", zap.Int("count", len(formulas)))
	return nil
}

func (e *Engine) Has(id int) bool { return e.known[id] }

// Evaluate runs formula id and rounds the result to the nearest integer.
func (e *Engine) Evaluate(id int, caster, target combat.Info) (int, error) {
	if !e.known[id] {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFormula, id)
	}
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(registryName)
	l.RawGetInt(-1, id)
	pushInfo(l, caster)
	pushInfo(l, target)
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		return 0, fmt.Errorf("evaluate formula %d: %w", id, err)
	}
	n, ok := l.ToNumber(-1)
	if !ok {
		return 0, fmt.Errorf("evaluate formula %d: result is %s, not a number", id, lua.TypeNameOf(l, -1))
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("evaluate formula %d: result is not finite", id)
	}
	return int(math.Round(n)), nil
}

func pushInfo(l *lua.State, info combat.Info) {
	l.NewTable()
	fields := []struct {
		name  string
		value int
	}{
		{"hp", info.HP},
		{"max_hp", info.MaxHP},
		{"atk", info.Attack},
		{"def", info.Defense},
		{"spd", info.Speed},
		{"handle", int(info.Handle)},
		{"template", info.Template},
	}
	for _, f := range fields {
		l.PushInteger(f.value)
		l.SetField(-2, f.name)
	}
	l.PushBoolean(info.Dead)
	l.SetField(-2, "dead")
}
