package battle

import (
	"math"

	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/plan"
	"battlecore/internal/report"
	"battlecore/internal/tables"
)

// Share of formula damage a targeted part takes.
const (
	WeaknessRatio = 1.0
	PartRatio     = 0.3
)

// resolvePlan turns one plan into report entries. A dead caster or a plan
// without skill context resolves to nothing.
func (c *Core) resolvePlan(p *plan.Plan) []*report.Entry {
	sk, ok := p.SkillContext()
	if !ok {
		c.log.Debug("plan without skill context", zap.Uint32("owner", uint32(p.Owner())))
		return nil
	}
	reg := c.deps.Registry
	if reg.IsDead(p.Owner()) {
		c.log.Debug("caster dead, plan skipped", zap.Uint32("owner", uint32(p.Owner())), zap.Int("skill", sk.ID))
		return nil
	}
	skill, ok := c.deps.Data.Skill(sk.ID)
	if !ok {
		c.log.Warn("unknown skill", zap.Int("skill", sk.ID), zap.Uint32("owner", uint32(p.Owner())))
		return nil
	}
	caster, ok := reg.SeekByHandle(p.Owner())
	if !ok {
		return nil
	}

	w := report.NewWriter()
	scope := w.Begin(&report.Entry{
		Type:   report.PlanResolve,
		Actor:  uint32(p.Owner()),
		Target: uint32(p.Target()),
		Skill:  skill.ID,
		Note:   skill.Name,
	})
	defer scope.Close()

	for _, defID := range skill.Definitions {
		def, ok := c.deps.Data.Definition(defID)
		if !ok {
			c.log.Warn("unknown skill definition", zap.Int("skill", skill.ID), zap.Int("definition", defID))
			continue
		}
		targets := reg.SelectTargets(def.Target, p.Owner(), p.Target())
		ds := w.Begin(&report.Entry{
			Type:       report.ActiveDefinition,
			Actor:      uint32(p.Owner()),
			Skill:      skill.ID,
			Definition: def.ID,
			Targets:    handles(targets),
		})
		c.applyFormulas(w, p, skill, def, caster, targets)
		for _, ed := range def.Effects {
			for _, t := range targets {
				if reg.IsDead(t.Handle) {
					continue
				}
				c.effects.RegisterEffect(w, p.Owner(), t.Handle, ed)
			}
		}
		ds.Close()
	}
	return w.Flush()
}

// applyFormulas applies the first formula of def that evaluates for at least
// one living target.
func (c *Core) applyFormulas(w *report.Writer, p *plan.Plan, skill tables.Skill, def tables.Definition, caster combat.Info, targets []combat.Info) {
	reg := c.deps.Registry
	for _, fid := range def.Formulas {
		f, ok := c.deps.Data.Formula(fid)
		if !ok {
			c.log.Warn("unknown formula", zap.Int("formula", fid), zap.Int("definition", def.ID))
			continue
		}
		applied := false
		for _, t := range targets {
			if reg.IsDead(t.Handle) {
				continue
			}
			cur, ok := reg.SeekByHandle(t.Handle)
			if !ok {
				continue
			}
			amount, err := c.deps.Formulas.Evaluate(fid, caster, cur)
			if err != nil {
				c.log.Warn("formula evaluation failed", zap.Int("formula", fid), zap.Error(err))
				continue
			}
			attackType := skill.AttackType
			if attackType == "" {
				attackType = f.AttackType
			}
			c.applyDamage(w, p, skill.ID, attackType, cur, amount)
			applied = true
		}
		if applied {
			break
		}
	}
}

// applyDamage splits amount between the plan's target part and the body.
func (c *Core) applyDamage(w *report.Writer, p *plan.Plan, skillID int, attackType string, target combat.Info, amount int) {
	body := amount
	if p.HasPartTarget() {
		var ok bool
		if body, ok = c.damagePart(w, p, attackType, target, amount); !ok {
			return
		}
	}
	res := c.deps.Damage.ApplyDamage(combat.DamageRequest{
		Owner:      p.Owner(),
		Target:     target.Handle,
		Skill:      skillID,
		Amount:     body,
		AttackType: attackType,
	})
	w.Add(&report.Entry{
		Type:   report.Damage,
		Actor:  uint32(p.Owner()),
		Target: uint32(target.Handle),
		Skill:  skillID,
		Amount: res.Amount,
		HP:     res.HP,
		Killed: res.Killed,
	})
}

// damagePart hits the targeted part and returns what the body takes: the
// part's share, or amount when the part is missing or broken. ok is false
// when the share rounds to nothing and neither part nor body is hit.
func (c *Core) damagePart(w *report.Writer, p *plan.Plan, attackType string, target combat.Info, amount int) (body int, ok bool) {
	parts := c.deps.Parts
	if parts == nil || !parts.HasActivePart(target.Handle, p.Part()) {
		return amount, true
	}
	weak := c.deps.Data.IsWeakness(target.Template, p.Part(), attackType)
	share := PartShare(amount, weak)
	if share <= 0 {
		return 0, false
	}
	res := parts.DamagePart(target.Handle, p.Part(), share, p.Owner())
	e := &report.Entry{
		Type:   report.PartDamage,
		Actor:  uint32(p.Owner()),
		Target: uint32(target.Handle),
		Part:   p.Part(),
		Amount: res.Amount,
		HP:     res.HP,
		Killed: res.Broken,
	}
	if weak {
		e.Note = "weakness"
	}
	w.Add(e)
	return share, true
}

// PartShare is the rounded damage a part takes from amount.
func PartShare(amount int, weakness bool) int {
	ratio := PartRatio
	if weakness {
		ratio = WeaknessRatio
	}
	return int(math.Round(float64(amount) * ratio))
}

func handles(infos []combat.Info) []uint32 {
	out := make([]uint32, 0, len(infos))
	for _, i := range infos {
		out = append(out, uint32(i.Handle))
	}
	return out
}
