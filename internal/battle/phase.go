package battle

import "fmt"

// Stage is a state of the turn machine.
type Stage int

const (
	StageInitialize Stage = iota
	StageTurnStart
	StageCalcEnemyPlan
	StagePlanning
	StageActionAlly
	StageActionEnemy
	StageTurnEnd
	StageBattleEnd
	StageHandoff
	StageFinished
)

var stageNames = map[Stage]string{
	StageInitialize:    "initialize",
	StageTurnStart:     "turn_start",
	StageCalcEnemyPlan: "calc_enemy_plan",
	StagePlanning:      "planning",
	StageActionAlly:    "action_ally",
	StageActionEnemy:   "action_enemy",
	StageTurnEnd:       "turn_end",
	StageBattleEnd:     "battle_end",
	StageHandoff:       "handoff",
	StageFinished:      "finished",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Phase is the coarse phase tag other systems may query.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseTurnStart
	PhaseCalcEnemyPlan
	PhasePlan
	PhaseAction
	PhaseTurnEnd
	PhaseBattleEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseTurnStart:
		return "turn_start"
	case PhaseCalcEnemyPlan:
		return "calc_enemy_plan"
	case PhasePlan:
		return "plan"
	case PhaseAction:
		return "action"
	case PhaseTurnEnd:
		return "turn_end"
	case PhaseBattleEnd:
		return "battle_end"
	}
	return "none"
}

// Lock holds the turn machine in place until released by outside input.
type Lock struct {
	released bool
}

func (l *Lock) Release()       { l.released = true }
func (l *Lock) Released() bool { return l == nil || l.released }

// PhaseUtility tracks the current phase and its optional lock.
type PhaseUtility struct {
	phase Phase
	lock  *Lock
}

func (p *PhaseUtility) Set(ph Phase) {
	p.phase = ph
	p.lock = nil
}

func (p *PhaseUtility) Current() Phase { return p.phase }

// Acquire installs a fresh lock on the current phase.
func (p *PhaseUtility) Acquire() *Lock {
	p.lock = &Lock{}
	return p.lock
}

func (p *PhaseUtility) Locked() bool { return !p.lock.Released() }

func (p *PhaseUtility) Unlock() {
	if p.lock != nil {
		p.lock.Release()
	}
}

// Status is what a Step left the machine waiting on.
type Status int

const (
	Continue Status = iota
	Waiting
	Done
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Waiting:
		return "waiting"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Wait int

const (
	WaitNone Wait = iota
	// WaitPlanning: ally plans are being chosen.
	WaitPlanning
	// WaitDirection: a report is being played back.
	WaitDirection
)

func (w Wait) String() string {
	switch w {
	case WaitPlanning:
		return "planning"
	case WaitDirection:
		return "direction"
	}
	return "none"
}

type InputKind int

const (
	InputNone InputKind = iota
	InputPlanningConfirmed
	InputDirectionCompleted
)

// Input resumes a waiting machine.
type Input struct {
	Kind InputKind
}

type StepResult struct {
	Status Status
	Wait   Wait
	Stage  Stage
}

// SystemState is the overall battle lifecycle state.
type SystemState int

const (
	SystemIdle SystemState = iota
	SystemBattle
	SystemClear
)

func (s SystemState) String() string {
	switch s {
	case SystemBattle:
		return "battle"
	case SystemClear:
		return "clear"
	}
	return "idle"
}
