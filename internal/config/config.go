package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultProjectPrefix = "sy"
	DefaultAPIURL        = "http://127.0.0.1:7410"
	DefaultDBFileName    = ".spry.db"
	DefaultLogLevel      = "info"

	DefaultSprintLengthDays = 14

	configFileName           = ".spry.toml"
	configDirEnvKey          = "SPRY_CONFIG_DIR"
	trustProjectConfigEnvKey = "SPRY_TRUST_PROJECT_CONFIG"
	apiURLEnvKey             = "SPRY_API_URL"
	dbPathEnvKey             = "SPRY_DB"
)

// BoardConfig carries per-column board policy. WIP limits are
// advisory: a missing or non-positive entry means the column is
// unlimited. No column is special-cased; any of the four may carry
// a limit.
type BoardConfig struct {
	WIPLimits map[string]int `toml:"wip_limits"`
}

// SprintConfig carries sprint planning defaults.
type SprintConfig struct {
	DefaultCapacity float64 `toml:"default_capacity"`
	LengthDays      int     `toml:"length_days"`
}

// Config defines runtime configuration for spry.
type Config struct {
	ProjectPrefix            string       `toml:"project_prefix"`
	APIURL                   string       `toml:"api_url"`
	DBPath                   string       `toml:"db_path"`
	LogLevel                 string       `toml:"log_level"`
	Board                    BoardConfig  `toml:"board"`
	Sprint                   SprintConfig `toml:"sprint"`
	TrustedProjectConfigPath string       `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ProjectPrefix: DefaultProjectPrefix,
		APIURL:        DefaultAPIURL,
		DBPath:        "",
		LogLevel:      DefaultLogLevel,
		Board:         BoardConfig{WIPLimits: nil},
		Sprint: SprintConfig{
			DefaultCapacity: 0,
			LengthDays:      DefaultSprintLengthDays,
		},
	}
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			homePath := filepath.Join(home, configFileName)
			if err := loadFile(homePath, &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.normalizeSprintDefaults()

	return &cfg, nil
}

// WIPLimit returns the configured limit for a column, or 0 when the
// column is unlimited.
func (c *Config) WIPLimit(column string) int {
	if c == nil || c.Board.WIPLimits == nil {
		return 0
	}
	limit := c.Board.WIPLimits[column]
	if limit < 0 {
		return 0
	}
	return limit
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"project_prefix",
	"api_url",
	"db_path",
	"log_level",
	"board.wip_limits.todo",
	"board.wip_limits.in_progress",
	"board.wip_limits.review",
	"board.wip_limits.done",
	"sprint.default_capacity",
	"sprint.length_days",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "project_prefix":
		return c.ProjectPrefix, nil
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "sprint.default_capacity":
		return strconv.FormatFloat(c.Sprint.DefaultCapacity, 'f', -1, 64), nil
	case "sprint.length_days":
		return strconv.Itoa(c.Sprint.LengthDays), nil
	}
	if column, ok := strings.CutPrefix(key, "board.wip_limits."); ok && IsAllowedKey(key) {
		return strconv.Itoa(c.WIPLimit(column)), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(key, "board.wip_limits."):
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return parsed, nil
	case key == "sprint.default_capacity":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number", key)
		}
		return parsed, nil
	case key == "sprint.length_days":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeSprintDefaults() {
	if c.Sprint.LengthDays <= 0 {
		c.Sprint.LengthDays = DefaultSprintLengthDays
	}
	if c.Sprint.DefaultCapacity < 0 {
		c.Sprint.DefaultCapacity = 0
	}
}
