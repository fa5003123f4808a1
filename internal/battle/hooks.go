package battle

import (
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/effect"
	"battlecore/internal/report"
)

// effectFactory builds instances whose hooks act through the core.
type effectFactory struct {
	core *Core
}

func (f effectFactory) NewInstance(caster, target combat.Handle, format effect.Format, def effect.Definition) *effect.Instance {
	turns := def.Turns
	if turns <= 0 {
		turns = format.Turns
	}
	return effect.NewInstance(caster, target, format, turns, effectHooks{core: f.core})
}

type effectHooks struct {
	core *Core
}

func (h effectHooks) Activate(inst *effect.Instance, res effect.AddResult, _ *report.Writer) {
	h.core.log.Debug("effect activated", zap.Int("code", int(inst.Code)),
		zap.Uint32("target", uint32(inst.Target)), zap.Stringer("result", res))
}

func (h effectHooks) MaxStackReached(inst *effect.Instance, w *report.Writer) {
	w.Add(&report.Entry{
		Type:   report.EffectMaxStack,
		Actor:  uint32(inst.Caster),
		Target: uint32(inst.Target),
		Effect: &report.EffectStatus{Code: int(inst.Code), Stack: inst.Stack, Turn: inst.Turns},
	})
}

// Turn applies the format's tick damage. Stack_Effect ticks scale with the
// stack count.
func (h effectHooks) Turn(inst *effect.Instance, w *report.Writer) {
	amount := inst.Format.TickDamage
	if amount <= 0 || h.core.deps.Registry.IsDead(inst.Target) {
		return
	}
	if inst.Format.Type == effect.StackEffect {
		amount *= inst.Stack
	}
	res := h.core.deps.Damage.ApplyDamage(combat.DamageRequest{
		Owner:  inst.Caster,
		Target: inst.Target,
		Amount: amount,
	})
	w.Add(&report.Entry{
		Type:   report.EffectTick,
		Actor:  uint32(inst.Caster),
		Target: uint32(inst.Target),
		Amount: res.Amount,
		HP:     res.HP,
		Killed: res.Killed,
		Effect: &report.EffectStatus{Code: int(inst.Code), Stack: inst.Stack, Turn: inst.Turns},
	})
}
