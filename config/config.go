package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Game groups the rule constants for a single room.
type Game struct {
	MinPlayers    int    `mapstructure:"minPlayers"`
	MaxPlayers    int    `mapstructure:"maxPlayers"`
	WinningScore  int    `mapstructure:"winningScore"`
	HandSize      int    `mapstructure:"handSize"`
	SwapsPerRound int    `mapstructure:"swapsPerRound"`
	TimerSeconds  int    `mapstructure:"timerSeconds"`
	CodeLength    int    `mapstructure:"codeLength"`
	CodeChars     string `mapstructure:"codeChars"`
}

type Config struct {
	Port           int           `mapstructure:"port"`
	Debug          bool          `mapstructure:"debug"`
	PostgresURL    string        `mapstructure:"postgresUrl"`
	SessionKey     string        `mapstructure:"sessionKey"`
	SessionTimeout time.Duration `mapstructure:"sessionTimeout"`
	GracePeriod    time.Duration `mapstructure:"gracePeriod"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	Game           Game          `mapstructure:"game"`
}

func Load() (*Config, error) {
	viper.SetDefault("port", 3000)
	viper.SetDefault("debug", false)
	viper.SetDefault("sessionTimeout", time.Hour)
	viper.SetDefault("gracePeriod", 30*time.Second)
	viper.SetDefault("allowedOrigins", []string{"*"})
	viper.SetDefault("game.minPlayers", 3)
	viper.SetDefault("game.maxPlayers", 10)
	viper.SetDefault("game.winningScore", 5)
	viper.SetDefault("game.handSize", 10)
	viper.SetDefault("game.swapsPerRound", 3)
	viper.SetDefault("game.timerSeconds", 60)
	viper.SetDefault("game.codeLength", 4)
	// No I/O/0/1: room codes get typed from phones.
	viper.SetDefault("game.codeChars", "ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

	viper.SetEnvPrefix("cardparty")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("postgresUrl", "POSTGRES_URL")
	viper.BindEnv("sessionKey", "SESSION_KEY")
	viper.BindEnv("port", "PORT")

	viper.SetConfigName("cardparty")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("config")
	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; env and defaults must suffice.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(config *Config) error {
	if config.Game.MinPlayers < 2 {
		return fmt.Errorf("game.minPlayers must be at least 2")
	}
	if config.Game.MaxPlayers < config.Game.MinPlayers {
		return fmt.Errorf("game.maxPlayers cannot be below game.minPlayers")
	}
	if config.Game.HandSize < 3 {
		return fmt.Errorf("game.handSize must be at least 3")
	}
	if config.Game.CodeLength < 3 {
		return fmt.Errorf("game.codeLength must be at least 3")
	}
	if len(config.Game.CodeChars) == 0 {
		return fmt.Errorf("game.codeChars must not be empty")
	}
	return nil
}
