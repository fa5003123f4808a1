// Package plan holds the actions combatants declare for a turn, the per-team
// reserved plan storage, and the rotation-driven AI that fills it for enemies.
package plan

import (
	"fmt"

	"battlecore/internal/combat"
)

// Kind tags the payload variant of a plan.
type Kind int

const (
	KindNone Kind = iota
	KindSkill
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSkill:
		return "skill"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Payload is the closed set of plan variants.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Skill casts a skill. An ID <= 0 carries no skill context.
type Skill struct {
	ID int
}

func (Skill) Kind() Kind  { return KindSkill }
func (Skill) isPayload() {}

// NoPayload is an empty plan (skip turn).
type NoPayload struct{}

func (NoPayload) Kind() Kind  { return KindNone }
func (NoPayload) isPayload() {}

// PartNone is the subpart value meaning "target the body".
const PartNone = -1

// Plan is one combatant's declared action for the current turn.
type Plan struct {
	owner   combat.Handle
	target  combat.Handle
	part    int
	payload Payload
}

func New(owner combat.Handle, payload Payload) *Plan {
	if payload == nil {
		payload = NoPayload{}
	}
	return &Plan{owner: owner, target: combat.InvalidHandle, part: PartNone, payload: payload}
}

func NewSkill(owner combat.Handle, skillID int) *Plan {
	return New(owner, Skill{ID: skillID})
}

func (p *Plan) Owner() combat.Handle  { return p.owner }
func (p *Plan) Target() combat.Handle { return p.target }
func (p *Plan) Part() int             { return p.part }
func (p *Plan) Payload() Payload      { return p.payload }
func (p *Plan) Kind() Kind            { return p.payload.Kind() }

func (p *Plan) SetTarget(h combat.Handle) { p.target = h }

// SetPart selects a target subpart; negative clears it.
func (p *Plan) SetPart(part int) {
	if part < 0 {
		part = PartNone
	}
	p.part = part
}

func (p *Plan) HasTarget() bool     { return p.target != combat.InvalidHandle }
func (p *Plan) HasPartTarget() bool { return p.part >= 0 }

// SkillContext returns the skill payload when the plan carries a usable one.
func (p *Plan) SkillContext() (Skill, bool) {
	s, ok := p.payload.(Skill)
	if !ok || s.ID <= 0 {
		return Skill{}, false
	}
	return s, true
}

func (p *Plan) String() string {
	switch v := p.payload.(type) {
	case Skill:
		return fmt.Sprintf("skill(%d) %d->%d part=%d", v.ID, p.owner, p.target, p.part)
	default:
		return fmt.Sprintf("%s %d", p.Kind(), p.owner)
	}
}
