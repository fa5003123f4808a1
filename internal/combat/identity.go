package combat

import (
	"fmt"
	"strings"

	"battlecore/internal/keygen"
)

// Handle identifies a combatant for the lifetime of a battle.
type Handle = keygen.Key

// InvalidHandle is the unset/sentinel handle.
const InvalidHandle = keygen.Invalid

// Identity partitions combatants into teams.
type Identity int

const (
	Ally Identity = iota
	Enemy
	// Object bounds per-team arrays; no combatant carries it.
	Object
)

func (i Identity) String() string {
	switch i {
	case Ally:
		return "Ally"
	case Enemy:
		return "Enemy"
	case Object:
		return "Object"
	}
	return fmt.Sprintf("Identity(%d)", int(i))
}

func (i Identity) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Opponent returns the other team. Object has no opponent.
func (i Identity) Opponent() Identity {
	switch i {
	case Ally:
		return Enemy
	case Enemy:
		return Ally
	}
	return Object
}

// Teams lists the identities that own combatants, in resolution order.
func Teams() []Identity { return []Identity{Ally, Enemy} }

func ParseIdentity(s string) (Identity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ally":
		return Ally, nil
	case "enemy":
		return Enemy, nil
	}
	return Object, fmt.Errorf("unknown identity %q", s)
}

// TargetRule selects the combatants a skill definition acts on.
type TargetRule int

const (
	TargetSelf TargetRule = iota
	// TargetSingle is the plan's declared target.
	TargetSingle
	TargetAllOpponents
	TargetAllFriends
)

var targetRuleNames = map[TargetRule]string{
	TargetSelf:         "self",
	TargetSingle:       "single",
	TargetAllOpponents: "all_opponents",
	TargetAllFriends:   "all_friends",
}

func (r TargetRule) String() string {
	if s, ok := targetRuleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("TargetRule(%d)", int(r))
}

func ParseTargetRule(s string) (TargetRule, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for r, name := range targetRuleNames {
		if name == key {
			return r, nil
		}
	}
	return TargetSelf, fmt.Errorf("unknown target rule %q", s)
}

// Side is the team a skill looks for candidates on, relative to its caster.
type Side int

const (
	SideOpponent Side = iota
	SideFriend
	SideSelf
)

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opponent":
		return SideOpponent, nil
	case "friend":
		return SideFriend, nil
	case "self":
		return SideSelf, nil
	}
	return SideOpponent, fmt.Errorf("unknown target side %q", s)
}

func (s Side) String() string {
	switch s {
	case SideOpponent:
		return "opponent"
	case SideFriend:
		return "friend"
	case SideSelf:
		return "self"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}
