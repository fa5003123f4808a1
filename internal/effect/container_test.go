package effect

import (
	"testing"

	"battlecore/internal/report"
)

const (
	poison Code = 10
	burn   Code = 11
	shield Code = 12
	mark   Code = 13
	haste  Code = 14
)

type formatTable map[Code]Format

func (t formatTable) EffectFormat(code Code) (Format, bool) {
	f, ok := t[code]
	return f, ok
}

func testFormats() formatTable {
	return formatTable{
		poison: {Code: poison, Name: "Poison", Type: StackEffect, MaxStack: 3, Turns: 2},
		burn:   {Code: burn, Name: "Burn", Type: CumEffect, Turns: 2},
		shield: {Code: shield, Name: "Shield", Type: OnceEffect, Turns: 3},
		mark:   {Code: mark, Name: "Mark", Type: HybridStackEffect, MaxStack: 2, Turns: 1},
		haste:  {Code: haste, Name: "Haste", Type: StackEffect, Turns: 1},
	}
}

type countingHooks struct {
	NopHooks
	maxStack int
	turns    int
}

func (h *countingHooks) MaxStackReached(*Instance, *report.Writer) { h.maxStack++ }
func (h *countingHooks) Turn(*Instance, *report.Writer)            { h.turns++ }

func inst(formats formatTable, code Code, turns int, hooks Hooks) *Instance {
	return NewInstance(1, 2, formats[code], turns, hooks)
}

func TestUnknownCodeCountsAreZero(t *testing.T) {
	c := NewTypeContainer(testFormats())
	if c.StackCount(99) != 0 || c.TurnCount(99) != 0 {
		t.Fatalf("unknown code should report zero")
	}
	if s := c.Status(99); s.Stack != 0 || s.Turn != 0 {
		t.Fatalf("unknown status = %+v", s)
	}
}

func TestStackEffectCapsAndRefreshes(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	hooks := &countingHooks{}

	for i := 0; i < 3; i++ {
		if res := c.Add(inst(formats, poison, 2, hooks), nil); res != Success {
			t.Fatalf("add %d = %v, want success", i, res)
		}
	}
	if got := c.StackCount(poison); got != 3 {
		t.Fatalf("stack = %d, want 3", got)
	}
	// 2 -> max(2, 2+1)=3 -> max(2, 3+1)=4
	if got := c.TurnCount(poison); got != 4 {
		t.Fatalf("turn = %d, want 4", got)
	}
	if hooks.maxStack != 1 {
		t.Fatalf("max stack hook fired %d times, want 1", hooks.maxStack)
	}

	if res := c.Add(inst(formats, poison, 9, hooks), nil); res != MaxStack {
		t.Fatalf("fourth add = %v, want max_stack", res)
	}
	if c.StackCount(poison) != 3 || c.TurnCount(poison) != 4 {
		t.Fatalf("capped add mutated state: stack=%d turn=%d", c.StackCount(poison), c.TurnCount(poison))
	}
	if hooks.maxStack != 1 {
		t.Fatalf("capped add fired the max stack hook")
	}
}

func TestStackEffectKeepsLongerIncomingDuration(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	c.Add(inst(formats, poison, 1, nil), nil)
	c.Add(inst(formats, poison, 5, nil), nil)
	if got := c.TurnCount(poison); got != 5 {
		t.Fatalf("turn = %d, want 5", got)
	}
}

func TestUncappedEffectNeverRejected(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	for i := 0; i < 50; i++ {
		if res := c.Add(inst(formats, burn, 2, nil), nil); res != Success {
			t.Fatalf("add %d = %v", i, res)
		}
		if res := c.Add(inst(formats, haste, 1, nil), nil); res != Success {
			t.Fatalf("haste add %d = %v", i, res)
		}
	}
	if c.StackCount(burn) != 50 || c.StackCount(haste) != 50 {
		t.Fatalf("stacks = %d/%d", c.StackCount(burn), c.StackCount(haste))
	}
}

func TestOnceEffectIgnoresRepeats(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	c.Add(inst(formats, shield, 3, nil), nil)
	c.Add(inst(formats, shield, 8, nil), nil)
	c.Add(inst(formats, shield, 1, nil), nil)
	if c.StackCount(shield) != 1 || c.TurnCount(shield) != 3 {
		t.Fatalf("once effect changed: stack=%d turn=%d", c.StackCount(shield), c.TurnCount(shield))
	}
}

func TestMultiInstanceTurnIsMax(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	c.Add(inst(formats, burn, 1, nil), nil)
	c.Add(inst(formats, burn, 4, nil), nil)
	c.Add(inst(formats, burn, 2, nil), nil)
	if c.StackCount(burn) != 3 || c.TurnCount(burn) != 4 {
		t.Fatalf("stack=%d turn=%d", c.StackCount(burn), c.TurnCount(burn))
	}
}

func TestHybridStackCapped(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	hooks := &countingHooks{}
	c.Add(inst(formats, mark, 1, hooks), nil)
	c.Add(inst(formats, mark, 1, hooks), nil)
	if res := c.Add(inst(formats, mark, 1, hooks), nil); res != MaxStack {
		t.Fatalf("third mark = %v", res)
	}
	if hooks.maxStack != 1 {
		t.Fatalf("hook fired %d times", hooks.maxStack)
	}
}

func TestAdvanceTurnExpiresWithoutSkippingSiblings(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	hooks := &countingHooks{}
	c.Add(inst(formats, burn, 1, hooks), nil)
	c.Add(inst(formats, burn, 3, hooks), nil)
	c.Add(inst(formats, burn, 1, hooks), nil)
	c.Add(inst(formats, shield, 2, hooks), nil)
	c.Add(inst(formats, haste, 1, hooks), nil)

	expired := c.AdvanceTurn(nil)
	if hooks.turns != 5 {
		t.Fatalf("turn hook ran %d times, want 5", hooks.turns)
	}
	if len(expired) != 3 {
		t.Fatalf("expired %d instances, want 3", len(expired))
	}
	if c.StackCount(burn) != 1 || c.TurnCount(burn) != 2 {
		t.Fatalf("burn stack=%d turn=%d", c.StackCount(burn), c.TurnCount(burn))
	}
	if c.StackCount(haste) != 0 {
		t.Fatalf("haste should have expired")
	}

	expired = c.AdvanceTurn(nil)
	if len(expired) != 1 || expired[0].Code != shield {
		t.Fatalf("second advance expired %+v", expired)
	}
	if got := len(c.ActiveEffects()); got != 1 {
		t.Fatalf("active effects = %d, want 1", got)
	}
}

func TestAddUnknownFormatFails(t *testing.T) {
	c := NewTypeContainer(testFormats())
	if res := c.Add(NewInstance(1, 2, Format{Code: 77}, 1, nil), nil); res != AddFail {
		t.Fatalf("res = %v, want add_fail", res)
	}
	if res := c.Add(nil, nil); res != AddFail {
		t.Fatalf("nil instance = %v", res)
	}
}

func TestClearDropsEverything(t *testing.T) {
	formats := testFormats()
	c := NewTypeContainer(formats)
	hooks := &countingHooks{}
	c.Add(inst(formats, poison, 2, hooks), nil)
	c.Add(inst(formats, burn, 2, hooks), nil)
	c.Clear()
	if len(c.ActiveEffects()) != 0 {
		t.Fatalf("clear left effects behind")
	}
	c.AdvanceTurn(nil)
	if hooks.turns != 0 {
		t.Fatalf("cleared instances still ticked")
	}
}

func TestParseStatusEffectType(t *testing.T) {
	cases := map[string]StatusEffectType{
		"Cum_Effect":         CumEffect,
		"hybridstack_effect": HybridStackEffect,
		"Once_Effect":        OnceEffect,
		"Stack_Effect":       StackEffect,
	}
	for in, want := range cases {
		got, err := ParseStatusEffectType(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatusEffectType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStatusEffectType("Aura_Effect"); err == nil {
		t.Fatalf("expected error")
	}
}
