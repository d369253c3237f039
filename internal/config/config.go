package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "ktbridge.yaml"

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"` // extra directory names skipped by the crawler
	} `yaml:"project"`
	Convert struct {
		Workers             int    `yaml:"workers"`
		DetectImplicitTypes bool   `yaml:"detect_implicit_types"`
		DetectInfix         bool   `yaml:"detect_infix"`
		OutDir              string `yaml:"out_dir"` // JSON exports are written here when set
		Validate            bool   `yaml:"validate"`
	} `yaml:"convert"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Convert.Workers = 4
	cfg.Convert.DetectImplicitTypes = true
	cfg.Convert.DetectInfix = true
	cfg.Storage.DBPath = "ktbridge.db"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// KTBRIDGE_* variables, from the environment or a .env file, win over both.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.Convert.Workers < 1 {
		cfg.Convert.Workers = 1
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if root := os.Getenv("KTBRIDGE_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if db := os.Getenv("KTBRIDGE_DB"); db != "" {
		cfg.Storage.DBPath = db
	}
	if out := os.Getenv("KTBRIDGE_OUT_DIR"); out != "" {
		cfg.Convert.OutDir = out
	}
	if level := os.Getenv("KTBRIDGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if w := os.Getenv("KTBRIDGE_WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("invalid KTBRIDGE_WORKERS %q: %w", w, err)
		}
		cfg.Convert.Workers = n
	}
	return nil
}
