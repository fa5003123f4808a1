package battle

import (
	"context"
	"errors"
	"testing"

	"battlecore/internal/combat"
	"battlecore/internal/config"
	"battlecore/internal/report"
	"battlecore/internal/tables"
)

const (
	skillStrike = 10
	skillVenom  = 11
	skillSweep  = 12
	skillBurn   = 13
	skillClub   = 20

	formulaFixed = 1
	formulaSweep = 2

	effectPoison = 1
	effectBurn   = 2

	tplHero = 1
	tplOgre = 2

	partCore = 0
	partHorn = 1
)

func testConfig() *config.Tables {
	return &config.Tables{
		Effects: config.EffectsConfig{Effects: []config.EffectDef{
			{Code: effectPoison, Name: "Poison", Type: "Stack_Effect", MaxStack: 3, Turns: 2},
			{Code: effectBurn, Name: "Burn", Type: "Cum_Effect", Turns: 1, TickDamage: 5},
		}},
		Formulas: config.FormulasConfig{Formulas: []config.FormulaDef{
			{ID: formulaFixed, Expr: "50", AttackType: "blunt"},
			{ID: formulaSweep, Expr: "7"},
		}},
		Skills: config.SkillsConfig{
			Skills: []config.Skill{
				{ID: skillStrike, Name: "Strike", AttackType: "slash", Definitions: []int{100}},
				{ID: skillVenom, Name: "Venom", Definitions: []int{101}},
				{ID: skillSweep, Name: "Sweep", Definitions: []int{102}},
				{ID: skillBurn, Name: "Burn", Definitions: []int{103}},
				{ID: skillClub, Name: "Club", Definitions: []int{100}},
			},
			Definitions: []config.DefinitionDef{
				{ID: 100, Target: "single", Formulas: []int{formulaFixed}},
				{ID: 101, Target: "single", Effects: []config.AppliedEffect{{Code: effectPoison, Turns: 2}}},
				{ID: 102, Target: "all_opponents", Formulas: []int{formulaSweep, formulaFixed}},
				{ID: 103, Target: "single", Effects: []config.AppliedEffect{{Code: effectBurn, Turns: 1}}},
			},
		},
		Characters: config.CharactersConfig{Characters: []config.CharacterDef{
			{Template: tplHero, Name: "Hero", MaxHP: 100, Attack: 10, Skills: []int{skillStrike, skillVenom, skillSweep, skillBurn}},
			{Template: tplOgre, Name: "Ogre", MaxHP: 200, Attack: 10, Skills: []int{skillClub}},
		}},
		Parts: config.PartsConfig{Parts: []config.PartDef{
			{Template: tplOgre, ID: partCore, Name: "Core", MaxHP: 100, Weakness: []string{"slash"}},
			{Template: tplOgre, ID: partHorn, Name: "Horn", MaxHP: 100, Weakness: []string{"fire"}},
		}},
		Rotations: config.RotationsConfig{Rotations: []config.RotationDef{
			{Template: tplOgre, Batches: [][]int{{0}}},
		}},
		Encounter: config.EncounterConfig{
			Name:    "test",
			Allies:  []config.MemberSlot{{Template: tplHero, Name: "A1"}, {Template: tplHero, Name: "A2"}},
			Enemies: []config.MemberSlot{{Template: tplOgre, Name: "E1"}},
		},
	}
}

// fixedFormulas evaluates formula ids to constants; ids in fail error out.
type fixedFormulas struct {
	values map[int]int
	fail   map[int]bool
	calls  int
}

func (f *fixedFormulas) Evaluate(id int, _, _ combat.Info) (int, error) {
	f.calls++
	if f.fail[id] {
		return 0, errors.New("boom")
	}
	v, ok := f.values[id]
	if !ok {
		return 0, errors.New("unknown")
	}
	return v, nil
}

type recordingDirector struct {
	render   bool
	reports  [][]*report.Entry
	onDirect func()
}

func (d *recordingDirector) Direct(entries []*report.Entry, _ *BuildContext) bool {
	d.reports = append(d.reports, entries)
	if d.onDirect != nil {
		d.onDirect()
	}
	return d.render
}

type recordingResults struct {
	outcomes []Outcome
}

func (r *recordingResults) HandleResult(_ context.Context, out Outcome) error {
	r.outcomes = append(r.outcomes, out)
	return nil
}

type testActor struct {
	name   string
	hidden int
}

func (a *testActor) Hide() { a.hidden++ }

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

type harness struct {
	core     *Core
	roster   *combat.Roster
	formulas *fixedFormulas
	director *recordingDirector
	results  *recordingResults
	actors   map[string]*testActor
	handles  map[string]combat.Handle
}

func newHarness(t *testing.T, mutate func(*config.Tables, *Deps)) *harness {
	t.Helper()
	cfg := testConfig()
	h := &harness{
		roster:   combat.NewRoster(),
		formulas: &fixedFormulas{values: map[int]int{formulaFixed: 50, formulaSweep: 7}, fail: map[int]bool{}},
		director: &recordingDirector{},
		results:  &recordingResults{},
		actors:   map[string]*testActor{},
		handles:  map[string]combat.Handle{},
	}
	deps := Deps{
		Registry: h.roster,
		Damage:   h.roster,
		Parts:    h.roster,
		Spawner:  h.roster,
		Formulas: h.formulas,
		Director: h.director,
		Results:  h.results,
		Rand:     fixedRand(0),
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}
	data, err := tables.Build(cfg)
	if err != nil {
		t.Fatalf("build tables: %v", err)
	}
	deps.Data = data
	core, err := New(deps)
	if err != nil {
		t.Fatalf("new core: %v", err)
	}
	h.core = core
	err = core.SpawnEncounter(cfg.Encounter, func(_ combat.Identity, name string) Actor {
		a := &testActor{name: name}
		h.actors[name] = a
		return a
	})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	core.ForEachActor(func(handle combat.Handle, a Actor) {
		h.handles[a.(*testActor).name] = handle
	})
	return h
}

func (h *harness) hp(t *testing.T, name string) int {
	t.Helper()
	info, ok := h.roster.SeekByHandle(h.handles[name])
	if !ok {
		t.Fatalf("no combatant %s", name)
	}
	return info.HP
}

// stepUntil steps with empty input until the machine waits, finishes or
// reaches stage.
func (h *harness) stepUntil(t *testing.T, stage Stage) StepResult {
	t.Helper()
	for i := 0; i < 100; i++ {
		if h.core.Stage() == stage {
			return StepResult{Status: Continue, Stage: stage}
		}
		res := h.core.Step(context.Background(), Input{})
		if res.Status != Continue {
			return res
		}
	}
	t.Fatalf("stage %s not reached", stage)
	return StepResult{}
}
