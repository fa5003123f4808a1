package config

type EffectsConfig struct {
	Effects []EffectDef `yaml:"effects"`
}

type EffectDef struct {
	Code       int    `yaml:"code"`
	Name       string `yaml:"name"`
	Type       string `yaml:"type"` // Cum_Effect | HybridStack_Effect | Once_Effect | Stack_Effect
	MaxStack   int    `yaml:"max_stack"`
	Turns      int    `yaml:"turns"`
	TickDamage int    `yaml:"tick_damage"`
	Note       string `yaml:"note"`
}
