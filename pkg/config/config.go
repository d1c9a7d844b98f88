// Package config loads figslides settings from a TOML file.
//
// Every field has a default, so an absent file or an empty one yields a
// working configuration. The PORT environment variable overrides the server
// address, which is how hosting platforms assign ports. CLI flags are
// applied on top by the caller.
//
// Example figslides.toml:
//
//	[slide]
//	width = 13.333
//	height = 7.5
//	safe_margin = 0.4  # 0 places layers edge to edge
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//
//	[redis]
//	addr = "localhost:6379"
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/figslides/pkg/core/layout"
	ferrors "github.com/matzehuels/figslides/pkg/errors"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "figslides.toml"

// Backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Slide   layout.Config `toml:"slide"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	History HistoryConfig `toml:"history"`
	Mongo   MongoConfig   `toml:"mongo"`
	Log     LogConfig     `toml:"log"`
}

// RenderConfig holds conversion defaults.
type RenderConfig struct {
	Formats      []string `toml:"formats"`
	SlideNumbers bool     `toml:"slide_numbers"`
	SafeArea     bool     `toml:"safe_area"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
	CORSOrigins     []string      `toml:"cors_origins"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend     string        `toml:"backend"`
	Dir         string        `toml:"dir"`
	PlanTTL     time.Duration `toml:"plan_ttl"`
	ArtifactTTL time.Duration `toml:"artifact_ttl"`
}

// RedisConfig is used when the cache backend is redis.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// HistoryConfig selects the conversion history store.
type HistoryConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Limit   int    `toml:"limit"`
}

// MongoConfig is used when the history backend is mongo.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Slide:  layout.DefaultConfig(),
		Render: RenderConfig{Formats: []string{"pptx"}},
		Server: ServerConfig{
			Addr:            ":8000",
			MaxBodyBytes:    50 << 20,
			CORSOrigins:     []string{"*"},
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:     BackendFile,
			PlanTTL:     24 * time.Hour,
			ArtifactTTL: 7 * 24 * time.Hour,
		},
		Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "figslides:"},
		History: HistoryConfig{Backend: BackendMemory, Limit: 50},
		Mongo:   MongoConfig{Database: "figslides", Collection: "conversions"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path tries FileName in the
// working directory and silently falls back to defaults when it is absent;
// an explicit path must exist. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	default:
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid config file %s", path)
	}
	if err == nil {
		if err := checkUndecoded(md, path); err != nil {
			return nil, err
		}
		cfg.applyMeta(md)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without touching the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if err := checkUndecoded(md, "config"); err != nil {
		return nil, err
	}
	cfg.applyMeta(md)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData, source string) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", source, strings.Join(keys, ", "))
}

// applyMeta handles keys whose zero value means something other than
// "unset".
func (c *Config) applyMeta(md toml.MetaData) {
	if md.IsDefined("slide", "safe_margin") && c.Slide.SafeMargin == 0 {
		c.Slide.EdgeToEdge = true
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	if lvl := strings.TrimSpace(getenv("FIGSLIDES_LOG_LEVEL")); lvl != "" {
		c.Log.Level = lvl
	}
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if err := c.Slide.Validate(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid [slide] section")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{BackendNone, BackendMemory, BackendFile, BackendMongo}, c.History.Backend) {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown history backend %q", c.History.Backend)
	}
	if c.History.Backend == BackendMongo && c.Mongo.URI == "" {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "history backend mongo requires [mongo] uri")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid [log] level")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}
