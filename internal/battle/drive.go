package battle

import (
	"context"
	"fmt"

	"battlecore/internal/combat"
	"battlecore/internal/plan"
	"battlecore/internal/util"
)

// InputSource answers the waits of a running core.
type InputSource interface {
	// Planning submits ally plans through core.Plans().
	Planning(ctx context.Context, core *Core) error
	// Direction returns once the last directed report finished playing.
	Direction(ctx context.Context, core *Core) error
}

// Drive steps core until it is done. Cancellation is checked between steps.
func Drive(ctx context.Context, core *Core, src InputSource) (Outcome, error) {
	var in Input
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		res := core.Step(ctx, in)
		in = Input{}
		switch res.Status {
		case Done:
			out, _ := core.Outcome()
			return out, nil
		case Waiting:
			switch res.Wait {
			case WaitPlanning:
				if err := src.Planning(ctx, core); err != nil {
					return Outcome{}, fmt.Errorf("planning turn %d: %w", core.Turn(), err)
				}
				in = Input{Kind: InputPlanningConfirmed}
			case WaitDirection:
				if err := src.Direction(ctx, core); err != nil {
					return Outcome{}, fmt.Errorf("direction turn %d: %w", core.Turn(), err)
				}
				in = Input{Kind: InputDirectionCompleted}
			}
		}
	}
}

// AutoPilot plans for allies the way a player pressing random buttons would:
// a random skill of the template at a random candidate. When the target has
// an active part weak to the skill's attack type, the part is aimed at.
type AutoPilot struct {
	Rand util.Rand
}

func (a AutoPilot) Planning(_ context.Context, core *Core) error {
	reg := core.Registry()
	data := core.Data()
	allies := reg.ListByPredicate(func(i combat.Info) bool { return i.Identity == combat.Ally && !i.Dead })
	for _, ally := range allies {
		t, ok := data.Template(ally.Template)
		if !ok || len(t.Skills) == 0 {
			continue
		}
		for core.Plans().PlanLimit(ally.Handle) > len(core.Plans().ReservedPlans(ally.Handle)) {
			skill, ok := data.Skill(t.Skills[util.Pick(a.Rand, len(t.Skills))])
			if !ok {
				break
			}
			candidates := reg.Candidates(ally.Handle, skill.Side)
			i := util.Pick(a.Rand, len(candidates))
			if i < 0 {
				break
			}
			target := candidates[i]
			p := plan.NewSkill(ally.Handle, skill.ID)
			p.SetTarget(target.Handle)
			if tt, ok := data.Template(target.Template); ok {
				for _, part := range tt.Parts {
					if data.IsWeakness(tt.ID, part.ID, skill.AttackType) {
						p.SetPart(part.ID)
						break
					}
				}
			}
			if !core.Plans().AddPlan(p, ally.Handle) {
				break
			}
		}
	}
	return nil
}

// Direction returns at once; there is nothing to wait for without a screen.
func (AutoPilot) Direction(context.Context, *Core) error { return nil }
