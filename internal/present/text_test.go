package present

import (
	"bytes"
	"strings"
	"testing"

	"battlecore/internal/battle"
	"battlecore/internal/combat"
	"battlecore/internal/report"
)

func lookup(h combat.Handle) (combat.Info, bool) {
	names := map[combat.Handle]string{1: "Knight", 2: "Golem"}
	n, ok := names[h]
	return combat.Info{Handle: h, Name: n}, ok
}

func TestDirectRendersNestedEntries(t *testing.T) {
	var buf bytes.Buffer
	d := NewTextDirector(&buf)
	w := report.NewWriter()
	w.Group(&report.Entry{Type: report.PlanResolve, Actor: 1, Skill: 101, Note: "Slash"}, func() {
		w.Group(&report.Entry{Type: report.ActiveDefinition, Targets: []uint32{2}}, func() {
			w.Add(&report.Entry{Type: report.PartDamage, Actor: 1, Target: 2, Part: 1, Amount: 30, Note: "weakness"})
			w.Add(&report.Entry{Type: report.Damage, Actor: 1, Target: 2, Amount: 30, HP: 0, Killed: true})
		})
	})
	ok := d.Direct(w.Flush(), &battle.BuildContext{Turn: 2, Stage: battle.StageActionAlly, Lookup: lookup})
	if !ok {
		t.Fatalf("nothing rendered")
	}
	out := buf.String()
	for _, want := range []string{"turn 2", "action_ally", "Knight uses Slash", "Knight hits Golem for 30", "defeats it", "weakness"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDirectEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	d := NewTextDirector(&buf)
	if d.Direct(nil, nil) {
		t.Fatalf("empty report rendered")
	}
	quiet := []*report.Entry{{Type: report.EffectTurnStart, Target: 1}}
	if d.Direct(quiet, nil) || buf.Len() != 0 {
		t.Fatalf("empty effect group rendered: %q", buf.String())
	}
}

func TestLineUnknownHandle(t *testing.T) {
	var buf bytes.Buffer
	d := NewTextDirector(&buf)
	d.Direct([]*report.Entry{{Type: report.Damage, Actor: 7, Target: 8, Amount: 3}}, &battle.BuildContext{Lookup: lookup})
	if !strings.Contains(buf.String(), "#7 hits #8 for 3") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
