package config

type SkillsConfig struct {
	Skills      []Skill         `yaml:"skills"`
	Definitions []DefinitionDef `yaml:"definitions"`
}

type Skill struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	AttackType  string `yaml:"attack_type"`
	Side        string `yaml:"side"` // opponent | friend | self
	Definitions []int  `yaml:"definitions"`
	Note        string `yaml:"note"`
}

type DefinitionDef struct {
	ID       int             `yaml:"id"`
	Target   string          `yaml:"target"` // self | single | all_opponents | all_friends
	Formulas []int           `yaml:"formulas"`
	Effects  []AppliedEffect `yaml:"effects"`
}

type AppliedEffect struct {
	Code  int `yaml:"code"`
	Turns int `yaml:"turns"`
}
