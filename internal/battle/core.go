// Package battle drives a turn-based battle: effect refresh, enemy planning,
// player planning, action resolution for both teams and end-of-battle
// hand-off, as an explicit step machine.
package battle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/effect"
	"battlecore/internal/keygen"
	"battlecore/internal/plan"
	"battlecore/internal/report"
	"battlecore/internal/tables"
	"battlecore/internal/util"
)

// Registry is the combatant registry the core reads.
type Registry interface {
	ListByPredicate(pred func(combat.Info) bool) []combat.Info
	SeekByHandle(h combat.Handle) (combat.Info, bool)
	IsDead(h combat.Handle) bool
	IsBattleEnded() bool
	CurrentResult() combat.Result
	ClearDiedThisTurn()
	DiedThisTurn() []combat.Handle
	SelectTargets(rule combat.TargetRule, owner, target combat.Handle) []combat.Info
	Candidates(owner combat.Handle, side combat.Side) []combat.Info
}

type DamageApplier interface {
	ApplyDamage(req combat.DamageRequest) combat.DamageResult
}

// PartSystem is the body-part damage contract.
type PartSystem interface {
	HasActivePart(target combat.Handle, part int) bool
	DamagePart(target combat.Handle, part, amount int, owner combat.Handle) combat.PartResult
}

// Spawner adds combatants to the registry and drops them again.
type Spawner interface {
	Add(c *combat.Combatant)
	Remove(h combat.Handle)
}

type Evaluator interface {
	Evaluate(id int, caster, target combat.Info) (int, error)
}

// Deps are the collaborators of a Core. Data, Registry, Damage and Formulas
// are required.
type Deps struct {
	Data     *tables.Data
	Registry Registry
	Damage   DamageApplier
	Parts    PartSystem
	Spawner  Spawner
	Formulas Evaluator
	Director Director
	Results  ResultHandler
	Rand     util.Rand
	Logger   *zap.Logger
	// MaxTurns ends the battle as a draw after that many turns; 0 disables.
	MaxTurns int
}

// Directed is one report handed to the director.
type Directed struct {
	Turn    int             `json:"turn"`
	Stage   string          `json:"stage"`
	Entries []*report.Entry `json:"entries"`
}

type Core struct {
	deps Deps
	log  *zap.Logger

	id     uuid.UUID
	state  SystemState
	stage  Stage
	turn   int
	phase  PhaseUtility
	wait   Wait
	resume Stage

	timedOut bool
	outcome  *Outcome

	keys      *keygen.Generator
	actors    map[combat.Handle]Actor
	order     []combat.Handle
	hidden    map[combat.Handle]bool
	listeners []DirectionListener

	effects *effect.Manager
	plans   *plan.Manager
	ai      *plan.AutoCaster

	history []Directed
}

var ErrMissingDeps = errors.New("battle: missing required dependency")

func New(deps Deps) (*Core, error) {
	if deps.Data == nil || deps.Registry == nil || deps.Damage == nil || deps.Formulas == nil {
		return nil, ErrMissingDeps
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Director == nil {
		deps.Director = NopDirector{}
	}
	if deps.Rand == nil {
		deps.Rand = util.New(1)
	}
	c := &Core{
		deps:   deps,
		id:     uuid.New(),
		keys:   keygen.New(),
		actors: map[combat.Handle]Actor{},
		hidden: map[combat.Handle]bool{},
	}
	c.log = deps.Logger.With(zap.String("battle", c.id.String()))
	c.effects = effect.NewManager(deps.Data, deps.Registry, effectFactory{core: c}, c.log.Named("effect"))
	c.plans = plan.NewManager(deps.Registry, c.log.Named("plan"))
	c.ai = plan.NewAutoCaster(deps.Data, deps.Rand, c.log.Named("ai"))
	return c, nil
}

func (c *Core) ID() string                   { return c.id.String() }
func (c *Core) Turn() int                    { return c.turn }
func (c *Core) Stage() Stage                 { return c.stage }
func (c *Core) State() SystemState           { return c.state }
func (c *Core) Phase() *PhaseUtility         { return &c.phase }
func (c *Core) Data() *tables.Data           { return c.deps.Data }
func (c *Core) Registry() Registry           { return c.deps.Registry }
func (c *Core) Plans() *plan.Manager         { return c.plans }
func (c *Core) Effects() *effect.Manager     { return c.effects }
func (c *Core) AutoCaster() *plan.AutoCaster { return c.ai }
func (c *Core) Rand() util.Rand              { return c.deps.Rand }

// History returns every report directed so far.
func (c *Core) History() []Directed { return c.history }

// Step advances the machine by one stage. A waiting machine only moves on
// when in answers what it waits for.
func (c *Core) Step(ctx context.Context, in Input) StepResult {
	switch c.wait {
	case WaitPlanning:
		if in.Kind != InputPlanningConfirmed {
			return c.waiting()
		}
		c.phase.Unlock()
		c.wait = WaitNone
		c.stage = StageActionAlly
	case WaitDirection:
		if in.Kind != InputDirectionCompleted {
			return c.waiting()
		}
		c.wait = WaitNone
		c.processDead()
		c.directionCompleted()
		c.stage = c.resume
	}

	c.log.Debug("step", zap.Stringer("stage", c.stage), zap.Int("turn", c.turn))
	switch c.stage {
	case StageInitialize:
		return c.initialize()
	case StageTurnStart:
		return c.turnStart()
	case StageCalcEnemyPlan:
		c.phase.Set(PhaseCalcEnemyPlan)
		c.generateEnemyPlans()
		return c.advance(StagePlanning)
	case StagePlanning:
		c.phase.Set(PhasePlan)
		c.phase.Acquire()
		c.wait = WaitPlanning
		return c.waiting()
	case StageActionAlly:
		return c.action(combat.Ally, StageActionEnemy)
	case StageActionEnemy:
		return c.action(combat.Enemy, StageTurnEnd)
	case StageTurnEnd:
		return c.turnEnd()
	case StageBattleEnd:
		return c.battleEnd()
	case StageHandoff:
		c.handoff(ctx)
		c.stage = StageFinished
		return StepResult{Status: Done, Stage: c.stage}
	default:
		return StepResult{Status: Done, Stage: c.stage}
	}
}

func (c *Core) waiting() StepResult {
	return StepResult{Status: Waiting, Wait: c.wait, Stage: c.stage}
}

func (c *Core) advance(next Stage) StepResult {
	c.stage = next
	return StepResult{Status: Continue, Stage: next}
}

// checked returns next, or StageBattleEnd when the registry reports the
// battle is over.
func (c *Core) checked(next Stage) Stage {
	if c.deps.Registry.IsBattleEnded() {
		return StageBattleEnd
	}
	return next
}

// ---- stages ----

func (c *Core) initialize() StepResult {
	c.state = SystemBattle
	c.phase.Set(PhaseNone)
	reg := c.deps.Registry
	allies := reg.ListByPredicate(func(i combat.Info) bool { return i.Identity == combat.Ally })
	enemies := reg.ListByPredicate(func(i combat.Info) bool { return i.Identity == combat.Enemy })
	c.log.Info("battle started", zap.Int("allies", len(allies)), zap.Int("enemies", len(enemies)))
	if len(allies) == 0 && len(enemies) == 0 {
		c.log.Error("battle has no combatants")
		return c.advance(StageBattleEnd)
	}
	return c.advance(StageTurnStart)
}

func (c *Core) turnStart() StepResult {
	c.turn++
	c.phase.Set(PhaseTurnStart)
	c.deps.Registry.ClearDiedThisTurn()

	w := report.NewWriter()
	scope := w.Begin(&report.Entry{Type: report.TurnStart, Amount: c.turn})
	c.effects.RefreshNextTurn(combat.Ally, w)
	c.effects.RefreshNextTurn(combat.Enemy, w)
	scope.Close()
	return c.direct(w.Flush(), c.checked(StageCalcEnemyPlan))
}

func (c *Core) action(team combat.Identity, next Stage) StepResult {
	c.phase.Set(PhaseAction)
	entries := c.plans.PlanLoop(team, c.resolvePlan)
	return c.direct(entries, c.checked(next))
}

func (c *Core) turnEnd() StepResult {
	c.phase.Set(PhaseTurnEnd)
	c.plans.TurnEndProcess()
	if c.deps.MaxTurns > 0 && c.turn >= c.deps.MaxTurns {
		c.log.Info("turn limit reached", zap.Int("turns", c.turn))
		c.timedOut = true
		return c.advance(StageBattleEnd)
	}
	return c.advance(StageTurnStart)
}

func (c *Core) battleEnd() StepResult {
	c.phase.Set(PhaseBattleEnd)
	c.state = SystemClear
	c.processDead()

	out := c.buildOutcome()
	c.outcome = &out
	w := report.NewWriter()
	w.Add(&report.Entry{Type: report.BattleEnd, Amount: c.turn, Note: out.Result.String()})
	c.log.Info("battle ended", zap.Stringer("result", out.Result), zap.Int("turns", c.turn),
		zap.Bool("timed_out", out.TimedOut))
	return c.direct(w.Flush(), StageHandoff)
}

// direct hands entries to the director and either moves on to next or waits
// for playback to finish. Deaths shown in the report are processed once the
// playback is over.
func (c *Core) direct(entries []*report.Entry, next Stage) StepResult {
	if len(entries) > 0 {
		c.history = append(c.history, Directed{Turn: c.turn, Stage: c.stage.String(), Entries: entries})
	}
	bc := &BuildContext{BattleID: c.ID(), Turn: c.turn, Stage: c.stage, Lookup: c.deps.Registry.SeekByHandle}
	if c.deps.Director.Direct(entries, bc) {
		c.wait = WaitDirection
		c.resume = next
		return c.waiting()
	}
	c.processDead()
	c.directionCompleted()
	return c.advance(next)
}

// processDead hides the actors of this turn's dead once and drops their
// effects and plans.
func (c *Core) processDead() {
	for _, h := range c.deps.Registry.DiedThisTurn() {
		if c.hidden[h] {
			continue
		}
		c.hidden[h] = true
		if a, ok := c.actors[h]; ok {
			a.Hide()
		}
		c.effects.Remove(h)
		c.plans.RemovePlanOf(h)
		c.log.Debug("combatant died", zap.Uint32("handle", uint32(h)))
	}
}

// Release drops all battle state. The core cannot be stepped afterwards.
func (c *Core) Release() {
	c.effects.Release()
	c.plans.RemoveAll()
	c.ai.Reset()
	for _, h := range append([]combat.Handle(nil), c.order...) {
		c.Unregister(h)
	}
	c.keys.Reset()
	c.listeners = nil
	c.stage = StageFinished
	c.state = SystemIdle
}
