package internal

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir     string `mapstructure:"workdir"`
		PageSize    int    `mapstructure:"page_size"`
		CatalogFile string `mapstructure:"catalog_file"`
	} `mapstructure:"storage"`

	BufferPool struct {
		Capacity    int           `mapstructure:"capacity"`
		Replacer    string        `mapstructure:"replacer"`
		LockTimeout time.Duration `mapstructure:"lock_timeout"`
	} `mapstructure:"buffer_pool"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Debug struct {
		DeadlockDetection bool `mapstructure:"deadlock_detection"`
	} `mapstructure:"debug"`
}

var defaults = map[string]any{
	"app_name":                 "simpledb",
	"storage.workdir":          ".",
	"storage.page_size":        4096,
	"storage.catalog_file":     "",
	"buffer_pool.capacity":     50,
	"buffer_pool.replacer":     "clock",
	"buffer_pool.lock_timeout": "2s",
	"log.level":                "info",
	"log.format":               "text",
	"debug.deadlock_detection": false,
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("SIMPLEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func DefaultConfig() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err) // defaults always decode
	}
	return cfg
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// uses defaults and SIMPLEDB_* environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.PageSize <= 0 {
		return nil, fmt.Errorf("config: storage.page_size must be positive, got %d", cfg.Storage.PageSize)
	}
	if _, err := cfg.LogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// CatalogPath resolves storage.catalog_file against storage.workdir. It is
// empty when no catalog file is configured.
func (c *Config) CatalogPath() string {
	p := c.Storage.CatalogFile
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Storage.Workdir, p)
}

func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the handler selected by log.format writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.LogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
