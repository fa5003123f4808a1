package plan

import (
	"go.uber.org/zap"

	"battlecore/internal/combat"
	"battlecore/internal/report"
)

// DefaultPlanLimit is the Ally plan cap when none was configured.
const DefaultPlanLimit = 1

// Registry resolves an owner's team.
type Registry interface {
	SeekByHandle(h combat.Handle) (combat.Info, bool)
}

// Listener is told when an owner's reserved plans change. A change affecting
// every owner is reported with combat.InvalidHandle. Listeners are compared
// by value, so use pointer types.
type Listener interface {
	OnPlanChanged(owner combat.Handle)
}

// Resolver turns one plan into report entries.
type Resolver func(p *Plan) []*report.Entry

type teamPlans struct {
	order []combat.Handle
	plans map[combat.Handle][]*Plan
}

func newTeamPlans() *teamPlans { return &teamPlans{plans: map[combat.Handle][]*Plan{}} }

func (t *teamPlans) remove(owner combat.Handle) bool {
	if _, ok := t.plans[owner]; !ok {
		return false
	}
	delete(t.plans, owner)
	for i, h := range t.order {
		if h == owner {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Manager stores the reserved plans of both teams.
type Manager struct {
	registry  Registry
	log       *zap.Logger
	teams     [combat.Object]*teamPlans
	limits    map[combat.Handle]int
	listeners []Listener
}

func NewManager(registry Registry, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{registry: registry, log: log, limits: map[combat.Handle]int{}}
	m.reset()
	return m
}

func (m *Manager) reset() {
	for i := range m.teams {
		m.teams[i] = newTeamPlans()
	}
}

func (m *Manager) team(id combat.Identity) *teamPlans {
	if id < 0 || id >= combat.Object {
		return nil
	}
	return m.teams[id]
}

// find locates the team holding owner's plans.
func (m *Manager) find(owner combat.Handle) *teamPlans {
	for _, t := range m.teams {
		if _, ok := t.plans[owner]; ok {
			return t
		}
	}
	return nil
}

// ---- listeners ----

// Subscribe adds l once; a repeated subscription is ignored.
func (m *Manager) Subscribe(l Listener) bool {
	if l == nil {
		return false
	}
	for _, x := range m.listeners {
		if x == l {
			return false
		}
	}
	m.listeners = append(m.listeners, l)
	return true
}

func (m *Manager) Unsubscribe(l Listener) {
	for i, x := range m.listeners {
		if x == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

func (m *Manager) notify(owner combat.Handle) {
	for _, l := range append([]Listener(nil), m.listeners...) {
		l.OnPlanChanged(owner)
	}
}

// ---- limits ----

func (m *Manager) SetPlanLimit(owner combat.Handle, n int) {
	if n < 0 {
		n = 0
	}
	m.limits[owner] = n
}

// ClearPlanLimit restores the default limit for owner.
func (m *Manager) ClearPlanLimit(owner combat.Handle) {
	delete(m.limits, owner)
}

func (m *Manager) PlanLimit(owner combat.Handle) int {
	if n, ok := m.limits[owner]; ok {
		return n
	}
	return DefaultPlanLimit
}

// ---- mutation ----

// AddPlan appends p to owner's list. Ally owners at their limit are refused.
func (m *Manager) AddPlan(p *Plan, owner combat.Handle) bool {
	if p == nil || m.registry == nil {
		return false
	}
	info, ok := m.registry.SeekByHandle(owner)
	if !ok {
		m.log.Debug("plan owner not registered", zap.Uint32("owner", uint32(owner)))
		return false
	}
	t := m.team(info.Identity)
	if t == nil {
		return false
	}
	list := t.plans[owner]
	if info.Identity == combat.Ally {
		if limit := m.PlanLimit(owner); len(list) >= limit {
			m.log.Warn("plan limit reached", zap.Uint32("owner", uint32(owner)), zap.Int("limit", limit))
			return false
		}
	}
	if _, ok := t.plans[owner]; !ok {
		t.order = append(t.order, owner)
	}
	t.plans[owner] = append(list, p)
	m.notify(owner)
	return true
}

// SetPlan replaces the plan at index.
func (m *Manager) SetPlan(p *Plan, owner combat.Handle, index int) bool {
	t := m.find(owner)
	if p == nil || t == nil || index < 0 || index >= len(t.plans[owner]) {
		m.log.Warn("set plan out of range", zap.Uint32("owner", uint32(owner)), zap.Int("index", index))
		return false
	}
	t.plans[owner][index] = p
	m.notify(owner)
	return true
}

// RemovePlan drops every plan owner reserved on team id.
func (m *Manager) RemovePlan(id combat.Identity, owner combat.Handle) {
	t := m.team(id)
	if t == nil {
		return
	}
	if t.remove(owner) {
		m.notify(owner)
	}
}

// RemovePlanOf resolves owner's team and removes its plans.
func (m *Manager) RemovePlanOf(owner combat.Handle) {
	if m.registry != nil {
		if info, ok := m.registry.SeekByHandle(owner); ok {
			m.RemovePlan(info.Identity, owner)
			return
		}
	}
	if t := m.find(owner); t != nil && t.remove(owner) {
		m.notify(owner)
	}
}

// TurnEndProcess clears every reserved plan. Limits persist.
func (m *Manager) TurnEndProcess() {
	m.reset()
	m.notify(combat.InvalidHandle)
}

// RemoveAll clears plans and limits.
func (m *Manager) RemoveAll() {
	m.reset()
	m.limits = map[combat.Handle]int{}
	m.notify(combat.InvalidHandle)
}

// ---- queries ----

func (m *Manager) FirstPlan(owner combat.Handle) (*Plan, bool) {
	t := m.find(owner)
	if t == nil || len(t.plans[owner]) == 0 {
		return nil, false
	}
	return t.plans[owner][0], true
}

// ReservedPlans returns a copy of owner's list; nil when it has none.
func (m *Manager) ReservedPlans(owner combat.Handle) []*Plan {
	t := m.find(owner)
	if t == nil {
		return nil
	}
	return append([]*Plan(nil), t.plans[owner]...)
}

func (m *Manager) HasPlans(owner combat.Handle) bool {
	t := m.find(owner)
	return t != nil && len(t.plans[owner]) > 0
}

func (m *Manager) IsPlanRegistered(p *Plan, owner combat.Handle) bool {
	t := m.find(owner)
	if t == nil {
		return false
	}
	for _, x := range t.plans[owner] {
		if x == p {
			return true
		}
	}
	return false
}

// Owners lists the owners holding plans on team id, in first-add order.
func (m *Manager) Owners(id combat.Identity) []combat.Handle {
	t := m.team(id)
	if t == nil {
		return nil
	}
	return append([]combat.Handle(nil), t.order...)
}

// PlanLoop resolves every plan of team id and concatenates the entries. The
// reserved lists are left untouched.
func (m *Manager) PlanLoop(id combat.Identity, resolve Resolver) []*report.Entry {
	t := m.team(id)
	if t == nil || resolve == nil {
		return nil
	}
	var out []*report.Entry
	for _, owner := range append([]combat.Handle(nil), t.order...) {
		for _, p := range append([]*Plan(nil), t.plans[owner]...) {
			out = append(out, resolve(p)...)
		}
	}
	return out
}
