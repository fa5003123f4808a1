package config

type EncounterConfig struct {
	Name     string       `yaml:"name"`
	MaxTurns int          `yaml:"max_turns"`
	Allies   []MemberSlot `yaml:"allies"`
	Enemies  []MemberSlot `yaml:"enemies"`
}

type MemberSlot struct {
	Template  int    `yaml:"template"`
	Name      string `yaml:"name"`
	PlanLimit int    `yaml:"plan_limit"`
}
