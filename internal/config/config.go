// Package config resolves pathwise settings from flags, environment, an
// optional YAML file and defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/pathwise/internal/ranking"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/submission"
)

// EnvPrefix prefixes every environment variable, e.g. PATHWISE_DB.
const EnvPrefix = "PATHWISE"

// Config holds runtime settings.
type Config struct {
	// DB is a SQLite path or a postgres:// DSN. Empty selects the default
	// data directory.
	DB string `mapstructure:"db"`
	// LogMode is "dev" (console) or "prod" (JSON).
	LogMode string `mapstructure:"log_mode"`
	// BlobDir holds uploaded submissions. Empty places it next to the
	// database.
	BlobDir string `mapstructure:"blob_dir"`
	// PassScore is the minimum grade that completes a task.
	PassScore int `mapstructure:"pass_score"`
	// DashboardLimit is how many projects the dashboard recommends.
	DashboardLimit int `mapstructure:"dashboard_limit"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogMode:        "dev",
		PassScore:      submission.DefaultPassScore,
		DashboardLimit: ranking.DefaultLimit,
	}
}

// SetDefaults registers defaults on v so environment variables bind to
// every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db", d.DB)
	v.SetDefault("log_mode", d.LogMode)
	v.SetDefault("blob_dir", d.BlobDir)
	v.SetDefault("pass_score", d.PassScore)
	v.SetDefault("dashboard_limit", d.DashboardLimit)
}

// New returns a viper instance wired for pathwise: defaults, PATHWISE_
// environment variables and, when file is set, that YAML file.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// ResolvePaths fills in DB and BlobDir when they were left empty.
func (c *Config) ResolvePaths() error {
	if c.DB == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return err
		}
		c.DB = p
	}
	if c.BlobDir != "" {
		return nil
	}
	if isRemoteDSN(c.DB) || strings.HasPrefix(c.DB, "file:") {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		c.BlobDir = filepath.Join(dir, "blobs")
		return nil
	}
	c.BlobDir = filepath.Join(filepath.Dir(c.DB), "blobs")
	return nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pathwise"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "pathwise"), nil
}
