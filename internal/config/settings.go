package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the runtime knobs of the simulator binary.
type Settings struct {
	AssetsDir string `env:"BATTLE_ASSETS_DIR" envDefault:"assets"`
	Seed      int64  `env:"BATTLE_SEED" envDefault:"1"`
	MaxTurns  int    `env:"BATTLE_MAX_TURNS" envDefault:"50"`
	ResultDB  string `env:"BATTLE_RESULT_DB"`
	LogLevel  string `env:"BATTLE_LOG_LEVEL" envDefault:"info"`
	Out       string `env:"BATTLE_OUT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
