package config

type CharactersConfig struct {
	Characters []CharacterDef `yaml:"characters"`
}

type CharacterDef struct {
	Template int    `yaml:"template"`
	Name     string `yaml:"name"`
	MaxHP    int    `yaml:"max_hp"`
	Attack   int    `yaml:"atk"`
	Defense  int    `yaml:"def"`
	Speed    int    `yaml:"spd"`
	Skills   []int  `yaml:"skills"` // skill-slot index -> skill id
	Note     string `yaml:"note"`
}

type PartsConfig struct {
	Parts []PartDef `yaml:"parts"`
}

type PartDef struct {
	Template int      `yaml:"template"`
	ID       int      `yaml:"id"`
	Name     string   `yaml:"name"`
	MaxHP    int      `yaml:"max_hp"`
	Weakness []string `yaml:"weakness"`
}

type RotationsConfig struct {
	Rotations []RotationDef `yaml:"rotations"`
}

type RotationDef struct {
	Template int     `yaml:"template"`
	Batches  [][]int `yaml:"batches"`
}
