package effect

import (
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/report"
)

// Registry is the part of the combatant registry the manager needs.
type Registry interface {
	ListByPredicate(pred func(combat.Info) bool) []combat.Info
}

// Factory builds the instance for a registration.
type Factory interface {
	NewInstance(caster, target combat.Handle, format Format, def Definition) *Instance
}

// DefaultFactory builds instances without side effects.
type DefaultFactory struct{}

func (DefaultFactory) NewInstance(caster, target combat.Handle, format Format, def Definition) *Instance {
	return NewInstance(caster, target, format, durationOf(format, def), nil)
}

func durationOf(format Format, def Definition) int {
	if def.Turns > 0 {
		return def.Turns
	}
	return format.Turns
}

// Manager owns every combatant's TypeContainer.
type Manager struct {
	formats    FormatSource
	factory    Factory
	registry   Registry
	log        *zap.Logger
	order      []combat.Handle
	containers map[combat.Handle]*TypeContainer
}

func NewManager(formats FormatSource, registry Registry, factory Factory, log *zap.Logger) *Manager {
	if factory == nil {
		factory = DefaultFactory{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		formats:    formats,
		factory:    factory,
		registry:   registry,
		log:        log,
		containers: map[combat.Handle]*TypeContainer{},
	}
}

// RegisterEffect applies def from caster onto target and records an
// ApplyEffect entry in w.
func (m *Manager) RegisterEffect(w *report.Writer, caster, target combat.Handle, def Definition) AddResult {
	format, ok := m.formats.EffectFormat(def.Code)
	if !ok {
		m.log.Warn("effect format not found", zap.Int("code", int(def.Code)),
			zap.Uint32("target", uint32(target)))
		return AddFail
	}
	inst := m.factory.NewInstance(caster, target, format, def)
	if inst == nil {
		m.log.Warn("effect factory returned no instance", zap.Int("code", int(def.Code)))
		return AddFail
	}
	c, ok := m.containers[target]
	if !ok {
		c = NewTypeContainer(m.formats)
		m.containers[target] = c
		m.order = append(m.order, target)
	}
	res := c.Add(inst, w)
	inst.Activate(res, w)

	status := c.Status(format.Code)
	w.Add(&report.Entry{
		Type:      report.ApplyEffect,
		Actor:     uint32(caster),
		Target:    uint32(target),
		Effect:    &report.EffectStatus{Code: int(status.Code), Stack: status.Stack, Turn: status.Turn},
		AddResult: res.String(),
	})
	m.log.Debug("effect registered", zap.Int("code", int(format.Code)),
		zap.Uint32("target", uint32(target)), zap.Stringer("result", res))
	return res
}

// RefreshNextTurn advances the effects of every member of team that has a
// container. Each combatant's refresh is one EffectTurnStart group in w.
func (m *Manager) RefreshNextTurn(team combat.Identity, w *report.Writer) {
	if m.registry == nil {
		m.log.Error("effect refresh without a combatant registry")
		return
	}
	members := m.registry.ListByPredicate(func(i combat.Info) bool { return i.Identity == team })
	for _, info := range members {
		c, ok := m.containers[info.Handle]
		if !ok {
			continue
		}
		scope := w.Begin(&report.Entry{Type: report.EffectTurnStart, Target: uint32(info.Handle)})
		for _, inst := range c.AdvanceTurn(w) {
			w.Add(&report.Entry{
				Type:   report.EffectExpired,
				Actor:  uint32(inst.Caster),
				Target: uint32(inst.Target),
				Effect: &report.EffectStatus{Code: int(inst.Code), Stack: inst.Stack},
			})
		}
		scope.Close()
	}
}

// Container never creates a container.
func (m *Manager) Container(h combat.Handle) (*TypeContainer, bool) {
	c, ok := m.containers[h]
	return c, ok
}

// Remove clears and forgets h's container.
func (m *Manager) Remove(h combat.Handle) {
	c, ok := m.containers[h]
	if !ok {
		return
	}
	c.Clear()
	delete(m.containers, h)
	for i, x := range m.order {
		if x == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Handles lists the combatants holding a container, in creation order.
func (m *Manager) Handles() []combat.Handle {
	return append([]combat.Handle(nil), m.order...)
}

func (m *Manager) Release() {
	for _, c := range m.containers {
		c.Clear()
	}
	m.containers = map[combat.Handle]*TypeContainer{}
	m.order = nil
}
