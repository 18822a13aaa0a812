// Package config loads ~/.ollamaland/config.yaml and applies environment overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/XCodeIsGoldX/ollamaland/assets"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/filesystem"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "OLLAMALAND_CONFIG"

// envOverrides are applied after the file is read. Unset variables leave the file value.
type envOverrides struct {
	Model           string `env:"OLLAMALAND_MODEL"`
	ContentCacheDir string `env:"OLLAMALAND_CONTENT_CACHE_DIR"`
	ResultCacheDir  string `env:"OLLAMALAND_RESULT_CACHE_DIR"`
	MaxContentSize  int    `env:"OLLAMALAND_MAX_CONTENT_SIZE"`
	Concurrency     int    `env:"OLLAMALAND_CONCURRENCY"`
	CacheBackend    string `env:"OLLAMALAND_CACHE_BACKEND"`
	LogLevel        string `env:"OLLAMALAND_LOG_LEVEL"`
}

// FileLoader loads YAML configuration from ~/.ollamaland/config.yaml (overridable via OLLAMALAND_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path resolves the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored
// and variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load implements ports.ConfigProvider. A missing file is created from the embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("create config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := writeDefault(path); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		data = assets.DefaultConfigYAML
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}
	return Hydrate(cfg), nil
}

// LoadFile reads the file as written, without environment overrides or defaults.
func (l *FileLoader) LoadFile() (domain.Config, error) {
	data, err := os.ReadFile(l.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Parse(assets.DefaultConfigYAML)
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Save writes cfg to the config file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Backup copies the current file to <path>.bak and returns the backup path.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak"
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// Reset overwrites the file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := writeDefault(path); err != nil {
		return domain.Config{}, err
	}
	return Defaults(), nil
}

// Path returns the config file location after applying overrides.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filesystem.AppDir("config.yaml")
}

// Parse decodes YAML without touching the environment or filesystem.
func Parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Defaults returns the embedded default configuration with paths expanded.
func Defaults() domain.Config {
	cfg, err := Parse(assets.DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return Hydrate(cfg)
}

func applyEnv(cfg *domain.Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.Model != "" {
		cfg.Preferences.DefaultModel = overrides.Model
	}
	if overrides.ContentCacheDir != "" {
		cfg.Cache.ContentDir = overrides.ContentCacheDir
	}
	if overrides.ResultCacheDir != "" {
		cfg.Cache.ResultDir = overrides.ResultCacheDir
	}
	if overrides.MaxContentSize != 0 {
		cfg.Fetch.MaxContentSize = overrides.MaxContentSize
	}
	if overrides.Concurrency != 0 {
		cfg.Fetch.Concurrency = overrides.Concurrency
	}
	if overrides.CacheBackend != "" {
		cfg.Cache.Backend = overrides.CacheBackend
	}
	if overrides.LogLevel != "" {
		cfg.Logging.Level = overrides.LogLevel
	}
	return nil
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

// Hydrate fills unset fields with defaults and expands ~ in paths.
func Hydrate(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if len(cfg.Models) == 0 {
		cfg.Models = []domain.ModelDefinition{{
			Name:     domain.DefaultModelName,
			Provider: domain.ProviderKindOllama,
			Endpoint: domain.DefaultOllamaEndpoint,
			ModelID:  domain.DefaultModelName,
		}}
	}
	if cfg.Preferences.DefaultModel == "" {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = int(domain.DefaultHTTPClientTimeout.Seconds())
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = domain.CacheBackendFile
	}
	cfg.Cache.ContentDir = filesystem.ExpandPath(valueOr(cfg.Cache.ContentDir, "~/"+filesystem.AppDirName+"/cache/content"))
	cfg.Cache.ResultDir = filesystem.ExpandPath(valueOr(cfg.Cache.ResultDir, "~/"+filesystem.AppDirName+"/cache/results"))
	cfg.Cache.BoltPath = filesystem.ExpandPath(valueOr(cfg.Cache.BoltPath, "~/"+filesystem.AppDirName+"/cache/cache.db"))
	if cfg.Fetch.Extractor == "" {
		cfg.Fetch.Extractor = domain.ExtractorSelectors
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = domain.DefaultUserAgent
	}
	cfg.History.Path = filesystem.ExpandPath(valueOr(cfg.History.Path, "~/"+filesystem.AppDirName+"/history/history.db"))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	return cfg
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
