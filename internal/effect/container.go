package effect

import "battlecore/internal/report"

// Container holds the instances of one StatusEffectType.
type Container interface {
	StackCount(code Code) int
	TurnCount(code Code) int
	// Add stores inst and reports whether anything changed.
	Add(inst *Instance) bool
	AdvanceTurn(w *report.Writer) []*Instance
	Statuses() []Status
	Clear()
}

func newContainer(t StatusEffectType) Container {
	switch t {
	case OnceEffect:
		return newSingleContainer(false)
	case StackEffect:
		return newSingleContainer(true)
	default:
		return newMultiContainer()
	}
}

// multiContainer keeps independent instances per code.
type multiContainer struct {
	order []Code
	lists map[Code][]*Instance
}

func newMultiContainer() *multiContainer {
	return &multiContainer{lists: map[Code][]*Instance{}}
}

func (c *multiContainer) StackCount(code Code) int { return len(c.lists[code]) }

func (c *multiContainer) TurnCount(code Code) int {
	turn := 0
	for _, inst := range c.lists[code] {
		if inst.Turns > turn {
			turn = inst.Turns
		}
	}
	return turn
}

func (c *multiContainer) Add(inst *Instance) bool {
	if _, ok := c.lists[inst.Code]; !ok {
		c.order = append(c.order, inst.Code)
	}
	c.lists[inst.Code] = append(c.lists[inst.Code], inst)
	inst.Stack = len(c.lists[inst.Code])
	return true
}

func (c *multiContainer) AdvanceTurn(w *report.Writer) []*Instance {
	var expired []*Instance
	order := append([]Code(nil), c.order...)
	c.order = c.order[:0]
	for _, code := range order {
		list := c.lists[code]
		kept := list[:0:0]
		for _, inst := range list {
			if inst.Advance(w) {
				kept = append(kept, inst)
			} else {
				expired = append(expired, inst)
			}
		}
		if len(kept) == 0 {
			delete(c.lists, code)
			continue
		}
		c.lists[code] = kept
		c.order = append(c.order, code)
	}
	return expired
}

func (c *multiContainer) Statuses() []Status {
	out := make([]Status, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, Status{Code: code, Stack: c.StackCount(code), Turn: c.TurnCount(code)})
	}
	return out
}

func (c *multiContainer) Clear() {
	c.order = nil
	c.lists = map[Code][]*Instance{}
}

type singleEntry struct {
	inst  *Instance
	stack int
}

// singleContainer keeps one instance per code plus a stack counter. With
// stacking off a repeated add is ignored.
type singleContainer struct {
	stacking bool
	order    []Code
	entries  map[Code]*singleEntry
}

func newSingleContainer(stacking bool) *singleContainer {
	return &singleContainer{stacking: stacking, entries: map[Code]*singleEntry{}}
}

func (c *singleContainer) StackCount(code Code) int {
	if e, ok := c.entries[code]; ok {
		return e.stack
	}
	return 0
}

func (c *singleContainer) TurnCount(code Code) int {
	if e, ok := c.entries[code]; ok {
		return e.inst.Turns
	}
	return 0
}

func (c *singleContainer) Add(inst *Instance) bool {
	e, ok := c.entries[inst.Code]
	if !ok {
		inst.Stack = 1
		c.entries[inst.Code] = &singleEntry{inst: inst, stack: 1}
		c.order = append(c.order, inst.Code)
		return true
	}
	if !c.stacking {
		return false
	}
	inst.Turns = max(inst.Turns, e.inst.Turns+1)
	e.stack++
	inst.Stack = e.stack
	e.inst = inst
	return true
}

func (c *singleContainer) AdvanceTurn(w *report.Writer) []*Instance {
	var expired []*Instance
	order := append([]Code(nil), c.order...)
	c.order = c.order[:0]
	for _, code := range order {
		e := c.entries[code]
		if e.inst.Advance(w) {
			c.order = append(c.order, code)
			continue
		}
		delete(c.entries, code)
		expired = append(expired, e.inst)
	}
	return expired
}

func (c *singleContainer) Statuses() []Status {
	out := make([]Status, 0, len(c.order))
	for _, code := range c.order {
		e := c.entries[code]
		out = append(out, Status{Code: code, Stack: e.stack, Turn: e.inst.Turns})
	}
	return out
}

func (c *singleContainer) Clear() {
	c.order = nil
	c.entries = map[Code]*singleEntry{}
}

// TypeContainer is one combatant's effects, split by StatusEffectType.
type TypeContainer struct {
	formats FormatSource
	subs    [typeCount]Container
}

func NewTypeContainer(formats FormatSource) *TypeContainer {
	c := &TypeContainer{formats: formats}
	for t := StatusEffectType(0); t < typeCount; t++ {
		c.subs[t] = newContainer(t)
	}
	return c
}

// Add applies the stacking policy of inst's format. At the stack cap nothing
// changes and MaxStack is returned.
func (c *TypeContainer) Add(inst *Instance, w *report.Writer) AddResult {
	if inst == nil {
		return AddFail
	}
	format, ok := c.formats.EffectFormat(inst.Code)
	if !ok || format.Type < 0 || format.Type >= typeCount {
		return AddFail
	}
	sub := c.subs[format.Type]
	if format.MaxStack > 0 && sub.StackCount(inst.Code) >= format.MaxStack {
		return MaxStack
	}
	if !sub.Add(inst) {
		return Success
	}
	if format.MaxStack > 0 && sub.StackCount(inst.Code) >= format.MaxStack {
		inst.reachedMaxStack(w)
	}
	return Success
}

func (c *TypeContainer) StackCount(code Code) int {
	for _, sub := range c.subs {
		if n := sub.StackCount(code); n > 0 {
			return n
		}
	}
	return 0
}

func (c *TypeContainer) TurnCount(code Code) int {
	for _, sub := range c.subs {
		if sub.StackCount(code) > 0 {
			return sub.TurnCount(code)
		}
	}
	return 0
}

// Status returns the stored state of code; an unknown code is all zeros.
func (c *TypeContainer) Status(code Code) Status {
	return Status{Code: code, Stack: c.StackCount(code), Turn: c.TurnCount(code)}
}

// AdvanceTurn advances every stored instance and returns the expired ones.
func (c *TypeContainer) AdvanceTurn(w *report.Writer) []*Instance {
	var expired []*Instance
	for _, sub := range c.subs {
		expired = append(expired, sub.AdvanceTurn(w)...)
	}
	return expired
}

func (c *TypeContainer) ActiveEffects() []Status {
	var out []Status
	for _, sub := range c.subs {
		out = append(out, sub.Statuses()...)
	}
	return out
}

func (c *TypeContainer) Clear() {
	for _, sub := range c.subs {
		sub.Clear()
	}
}
