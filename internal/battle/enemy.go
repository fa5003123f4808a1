package battle

import (
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/plan"
	"battlecore/internal/util"
)

// generateEnemyPlans reserves this turn's plans for every living enemy from
// its template's rotation. Each skill aims at a random living candidate.
func (c *Core) generateEnemyPlans() {
	reg := c.deps.Registry
	enemies := reg.ListByPredicate(func(i combat.Info) bool { return i.Identity == combat.Enemy && !i.Dead })
	for _, e := range enemies {
		for _, slot := range c.ai.GeneratePlan(e.Template) {
			skillID, ok := c.deps.Data.SkillAt(e.Template, slot)
			if !ok {
				c.log.Warn("skill slot out of range", zap.Int("template", e.Template), zap.Int("slot", slot))
				continue
			}
			skill, ok := c.deps.Data.Skill(skillID)
			if !ok {
				c.log.Warn("unknown skill", zap.Int("skill", skillID))
				continue
			}
			candidates := reg.Candidates(e.Handle, skill.Side)
			i := util.Pick(c.deps.Rand, len(candidates))
			if i < 0 {
				c.log.Debug("no target candidate", zap.Uint32("owner", uint32(e.Handle)), zap.Int("skill", skillID))
				continue
			}
			p := plan.NewSkill(e.Handle, skillID)
			p.SetTarget(candidates[i].Handle)
			c.plans.AddPlan(p, e.Handle)
		}
	}
}
