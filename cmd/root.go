package cmd

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/store/postgres"
	redisstore "github.com/spigell/talentscout/internal/store/redis"
)

const (
	app       = "talentscout"
	envPrefix = "TALENTSCOUT"
)

type Config struct {
	DataDir string       `mapstructure:"data-dir" validate:"required"`
	LogFile string       `mapstructure:"log-file"`
	AI      *AIConfig    `mapstructure:"ai" validate:"required"`
	Store   *StoreConfig `mapstructure:"store" validate:"required"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required"`
	Retry    *RetryConfig  `mapstructure:"retry" validate:"required"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api-key"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
	Model       string  `mapstructure:"model" validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max-attempts" validate:"gte=1,lte=10"`
	BaseDelay   time.Duration `mapstructure:"base-delay" validate:"gte=0"`
}

type StoreConfig struct {
	Backend  string          `mapstructure:"backend" validate:"oneof=none postgres redis sqlite"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	SQLite   *SQLiteConfig   `mapstructure:"sqlite"`
}

type PostgresConfig struct {
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
	Table   string `mapstructure:"table"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a conversational hiring assistant that screens candidates in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Version needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig applies defaults and environment bindings and reads the config
// file. Without an explicit path a missing talentscout.yaml is not an error.
func readConfig(v *viper.Viper, path string) error {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %q: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data-dir", store.DefaultDataDir)
	v.SetDefault("log-file", "")
	v.SetDefault("ai.provider", gemini.Provider)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.temperature", 0)
	v.SetDefault("ai.retry.max-attempts", ai.DefaultMaxAttempts)
	v.SetDefault("ai.retry.base-delay", ai.DefaultBaseDelay)
	v.SetDefault("store.backend", "none")
	v.SetDefault("store.postgres.table", postgres.DefaultTable)
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", redisstore.DefaultPrefix)
	v.SetDefault("store.redis.ttl", time.Duration(0))
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.dsn-file", "")
	v.SetDefault("store.sqlite.path", filepath.Join(store.DefaultDataDir, app+".db"))
}

// loadConfig decodes and validates the configuration.
func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Store.Backend = strings.ToLower(strings.TrimSpace(config.Store.Backend))
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}
