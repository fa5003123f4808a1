package combat

// Part is one breakable body part of a combatant.
type Part struct {
	ID     int
	HP     int
	MaxHP  int
	Active bool
}

// Combatant is the mutable battle state of one registered character.
type Combatant struct {
	Handle   Handle
	Name     string
	Template int
	Identity Identity

	HP      int
	MaxHP   int
	Attack  int
	Defense int
	Speed   int

	Parts map[int]*Part
}

// Info is a read-only snapshot handed to resolution code.
type Info struct {
	Handle   Handle   `json:"handle"`
	Name     string   `json:"name"`
	Template int      `json:"template"`
	Identity Identity `json:"identity"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Attack   int      `json:"atk"`
	Defense  int      `json:"def"`
	Speed    int      `json:"spd"`
	Dead     bool     `json:"dead"`
}

func (c *Combatant) Info() Info {
	return Info{
		Handle:   c.Handle,
		Name:     c.Name,
		Template: c.Template,
		Identity: c.Identity,
		HP:       c.HP,
		MaxHP:    c.MaxHP,
		Attack:   c.Attack,
		Defense:  c.Defense,
		Speed:    c.Speed,
		Dead:     c.HP <= 0,
	}
}

// Result is the outcome of a battle from the Ally team's point of view.
type Result int

const (
	ResultNone Result = iota
	ResultVictory
	ResultDefeat
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultVictory:
		return "victory"
	case ResultDefeat:
		return "defeat"
	case ResultDraw:
		return "draw"
	}
	return "none"
}

func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// DamageRequest asks the registry to apply damage to a combatant's body.
type DamageRequest struct {
	Owner      Handle
	Target     Handle
	Skill      int
	Amount     int
	AttackType string
}

type DamageResult struct {
	Target Handle
	Amount int
	HP     int
	Killed bool
}

type PartResult struct {
	Target Handle
	Part   int
	Amount int
	HP     int
	Broken bool
}
