package battle

import (
	"context"

	"go.uber.org/zap"

	"battlecore/internal/combat"
)

// Outcome is what a finished battle hands to the result handler.
type Outcome struct {
	BattleID  string        `json:"battle_id"`
	Result    combat.Result `json:"result"`
	Turns     int           `json:"turns"`
	TimedOut  bool          `json:"timed_out"`
	Survivors []combat.Info `json:"survivors"`
}

// ResultHandler receives the outcome once the end-of-battle report was
// directed.
type ResultHandler interface {
	HandleResult(ctx context.Context, out Outcome) error
}

func (c *Core) buildOutcome() Outcome {
	reg := c.deps.Registry
	res := reg.CurrentResult()
	if res == combat.ResultNone && c.timedOut {
		res = combat.ResultDraw
	}
	return Outcome{
		BattleID:  c.ID(),
		Result:    res,
		Turns:     c.turn,
		TimedOut:  c.timedOut,
		Survivors: reg.ListByPredicate(func(i combat.Info) bool { return !i.Dead }),
	}
}

// Outcome returns the final outcome; ok is false until the battle ended.
func (c *Core) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

func (c *Core) handoff(ctx context.Context) {
	if c.deps.Results == nil || c.outcome == nil {
		return
	}
	if err := c.deps.Results.HandleResult(ctx, *c.outcome); err != nil {
		c.log.Error("result handler failed", zap.Error(err))
	}
}
