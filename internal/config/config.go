package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"./tictactoe.db"`
	BcryptCost        int    `yaml:"bcrypt-cost" env:"BCRYPT_COST" env-default:"10"`
	Redis             Redis  `yaml:"redis"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB   int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Game holds the defaults used when "new" is typed without arguments.
type Game struct {
	Mode   string `yaml:"mode" env:"GAME_MODE" env-default:"ai"`
	AIMark string `yaml:"ai-mark" env:"GAME_AI_MARK" env-default:"O"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(err)
	}

	return config
}

func (that *Config) Validate() error {
	if _, err := entity.ParseGameMode(that.Game.Mode); err != nil {
		return fmt.Errorf("%w: game.mode: %w", ErrInvalidConfig, err)
	}

	if _, err := entity.ParseMark(that.Game.AIMark); err != nil {
		return fmt.Errorf("%w: game.ai-mark: %w", ErrInvalidConfig, err)
	}

	if that.SQLiteStoragePath == "" {
		return fmt.Errorf("%w: sqlite-storage-path is empty", ErrInvalidConfig)
	}

	return nil
}

// DefaultMode returns the configured mode; Validate has already checked it.
func (that *Game) DefaultMode() entity.GameMode {
	mode, _ := entity.ParseGameMode(that.Mode)
	return mode
}

func (that *Game) DefaultAIMark() entity.Cell {
	mark, _ := entity.ParseMark(that.AIMark)
	return mark
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
