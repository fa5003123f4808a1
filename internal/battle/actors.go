package battle

import (
	"fmt"

	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/config"
	"battlecore/internal/report"
)

// Actor is the presentation object standing for a combatant.
type Actor interface {
	Hide()
}

type nopActor struct{}

func (nopActor) Hide() {}

// BuildContext is passed to the director with every report.
type BuildContext struct {
	BattleID string
	Turn     int
	Stage    Stage
	Lookup   func(h combat.Handle) (combat.Info, bool)
}

// Director plays back reports. Direct reports whether anything renderable
// was produced; when it was, the core waits for InputDirectionCompleted.
type Director interface {
	Direct(entries []*report.Entry, bc *BuildContext) bool
}

// NopDirector renders nothing.
type NopDirector struct{}

func (NopDirector) Direct([]*report.Entry, *BuildContext) bool { return false }

// DirectionListener is called once per finished playback. Listeners are
// compared by value, so use pointer types.
type DirectionListener interface {
	OnDirectionCompleted(stage Stage)
}

// ---- actor registry ----

// Register issues a handle for actor.
func (c *Core) Register(actor Actor) combat.Handle {
	if actor == nil {
		actor = nopActor{}
	}
	h := c.keys.Allocate()
	c.actors[h] = actor
	c.order = append(c.order, h)
	return h
}

// Unregister drops the actor and everything the battle holds for h before
// the handle can be issued again.
func (c *Core) Unregister(h combat.Handle) {
	if _, ok := c.actors[h]; !ok {
		return
	}
	c.plans.RemovePlanOf(h)
	c.plans.ClearPlanLimit(h)
	c.effects.Remove(h)
	if c.deps.Spawner != nil {
		c.deps.Spawner.Remove(h)
	}
	delete(c.actors, h)
	delete(c.hidden, h)
	for i, x := range c.order {
		if x == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.keys.Release(h)
}

func (c *Core) Lookup(h combat.Handle) (Actor, bool) {
	a, ok := c.actors[h]
	return a, ok
}

// ForEachActor visits actors in registration order.
func (c *Core) ForEachActor(fn func(combat.Handle, Actor)) {
	for _, h := range append([]combat.Handle(nil), c.order...) {
		if a, ok := c.actors[h]; ok {
			fn(h, a)
		}
	}
}

// Spawn registers actor and adds a combatant built from template. A positive
// planLimit sets an ally's plan cap.
func (c *Core) Spawn(id combat.Identity, template int, name string, planLimit int, actor Actor) (combat.Handle, error) {
	if c.deps.Spawner == nil {
		return combat.InvalidHandle, fmt.Errorf("spawn %d: no spawner configured", template)
	}
	if id != combat.Ally && id != combat.Enemy {
		return combat.InvalidHandle, fmt.Errorf("spawn %d: identity %s cannot hold combatants", template, id)
	}
	t, ok := c.deps.Data.Template(template)
	if !ok {
		return combat.InvalidHandle, fmt.Errorf("spawn: unknown template %d", template)
	}
	if name == "" {
		name = t.Name
	}
	h := c.Register(actor)
	comb := &combat.Combatant{
		Handle:   h,
		Name:     name,
		Template: template,
		Identity: id,
		HP:       t.MaxHP,
		MaxHP:    t.MaxHP,
		Attack:   t.Attack,
		Defense:  t.Defense,
		Speed:    t.Speed,
		Parts:    map[int]*combat.Part{},
	}
	for _, p := range t.Parts {
		comb.Parts[p.ID] = &combat.Part{ID: p.ID, HP: p.MaxHP, MaxHP: p.MaxHP, Active: true}
	}
	c.deps.Spawner.Add(comb)
	if id == combat.Ally && planLimit > 0 {
		c.plans.SetPlanLimit(h, planLimit)
	}
	c.log.Debug("spawned", zap.Uint32("handle", uint32(h)), zap.String("name", name),
		zap.Stringer("identity", id))
	return h, nil
}

// SpawnEncounter spawns both teams of enc. newActor may be nil.
func (c *Core) SpawnEncounter(enc config.EncounterConfig, newActor func(combat.Identity, string) Actor) error {
	teams := []struct {
		id    combat.Identity
		slots []config.MemberSlot
	}{
		{combat.Ally, enc.Allies},
		{combat.Enemy, enc.Enemies},
	}
	for _, team := range teams {
		for _, s := range team.slots {
			var actor Actor
			if newActor != nil {
				actor = newActor(team.id, s.Name)
			}
			if _, err := c.Spawn(team.id, s.Template, s.Name, s.PlanLimit, actor); err != nil {
				return fmt.Errorf("spawn encounter %q: %w", enc.Name, err)
			}
		}
	}
	return nil
}

// ---- direction listeners ----

// OnDirectionCompleted subscribes l once; repeated subscriptions are ignored.
func (c *Core) OnDirectionCompleted(l DirectionListener) bool {
	if l == nil {
		return false
	}
	for _, x := range c.listeners {
		if x == l {
			return false
		}
	}
	c.listeners = append(c.listeners, l)
	return true
}

func (c *Core) RemoveDirectionListener(l DirectionListener) {
	for i, x := range c.listeners {
		if x == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *Core) directionCompleted() {
	for _, l := range append([]DirectionListener(nil), c.listeners...) {
		l.OnDirectionCompleted(c.stage)
	}
}
