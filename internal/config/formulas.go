package config

type FormulasConfig struct {
	Formulas []FormulaDef `yaml:"formulas"`
}

// FormulaDef is a Lua expression over caster and target, e.g.
// "caster.atk * 2 - target.def".
type FormulaDef struct {
	ID         int    `yaml:"id"`
	Expr       string `yaml:"expr"`
	AttackType string `yaml:"attack_type"`
	Note       string `yaml:"note"`
}
