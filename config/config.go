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

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = ".qrbatch.yaml"

// DefaultEnvFile is loaded into the process environment when present.
const DefaultEnvFile = ".env"

type Config struct {
	BaseURL    string `yaml:"base_url"`
	OutputDir  string `yaml:"output_dir"`
	BoxSize    int    `yaml:"box_size"`
	Border     int    `yaml:"border"`
	LogLevel   string `yaml:"log_level"`
	LogJSON    bool   `yaml:"log_json"`
	Port       int    `yaml:"port"`
	CacheSize  int    `yaml:"cache_size"`
	HistoryDB  string `yaml:"history_db"`
	WriteIndex bool   `yaml:"write_index"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		BaseURL:   "http://localhost:8000",
		OutputDir: "qr_codes",
		BoxSize:   10,
		Border:    2,
		LogLevel:  "WARN",
		Port:      8080,
		CacheSize: 64,
	}
}

// LoadConfig layers defaults, the YAML file at path, the .env file and
// QRBATCH_* environment variables, in that order. An empty path falls back
// to DefaultConfigFile and tolerates its absence; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// loadEnvFile imports variables from file without overriding ones already set.
func loadEnvFile(file string) error {
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("loading env file %s: %w", file, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.BaseURL = getEnv("QRBATCH_BASE_URL", cfg.BaseURL)
	cfg.OutputDir = getEnv("QRBATCH_OUTPUT_DIR", cfg.OutputDir)
	cfg.LogLevel = getEnv("QRBATCH_LOG_LEVEL", cfg.LogLevel)
	cfg.HistoryDB = getEnv("QRBATCH_HISTORY_DB", cfg.HistoryDB)
	cfg.BoxSize = getEnvInt("QRBATCH_BOX_SIZE", cfg.BoxSize)
	cfg.Border = getEnvInt("QRBATCH_BORDER", cfg.Border)
	cfg.Port = getEnvInt("QRBATCH_PORT", cfg.Port)
	cfg.CacheSize = getEnvInt("QRBATCH_CACHE_SIZE", cfg.CacheSize)
	cfg.WriteIndex = getEnvBool("QRBATCH_WRITE_INDEX", cfg.WriteIndex)
	cfg.LogJSON = getEnvBool("QRBATCH_LOG_JSON", cfg.LogJSON)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}
