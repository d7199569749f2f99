// Package config loads nl2sql settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap/zapcore"

	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/reporter"
)

// DefaultPath is read when no --config flag is given; a missing default file is not an error.
const DefaultPath = "nl2sql.yaml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for nl2sql.
// Environment variables override YAML values.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Schema SchemaConfig `yaml:"schema"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Batch  BatchConfig  `yaml:"batch"`
	Output OutputConfig `yaml:"output"`
}

// EngineConfig selects the linguistic engine. Fixtures win over URL when both are set.
type EngineConfig struct {
	URL      string        `yaml:"url" env:"NL2SQL_ENGINE_URL" env-default:""`
	Model    string        `yaml:"model" env:"NL2SQL_ENGINE_MODEL" env-default:"en_core_web_sm"`
	Fixtures string        `yaml:"fixtures" env:"NL2SQL_ENGINE_FIXTURES" env-default:""`
	Timeout  time.Duration `yaml:"timeout" env:"NL2SQL_ENGINE_TIMEOUT" env-default:"10s"`
	Retries  int           `yaml:"retries" env:"NL2SQL_ENGINE_RETRIES" env-default:"2"`
}

// SchemaConfig overrides the embedded assets schema. Empty paths keep the embedded files.
type SchemaConfig struct {
	Table    string `yaml:"table" env:"NL2SQL_TABLE" env-default:"assets"`
	DDL      string `yaml:"ddl" env:"NL2SQL_SCHEMA_DDL" env-default:""`
	Synonyms string `yaml:"synonyms" env:"NL2SQL_SCHEMA_SYNONYMS" env-default:""`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"NL2SQL_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"NL2SQL_LOG_DEVELOPMENT" env-default:"false"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"NL2SQL_HOST" env-default:"127.0.0.1"`
	Port int    `yaml:"port" env:"NL2SQL_PORT" env-default:"8080"`
}

type BatchConfig struct {
	Workers    int      `yaml:"workers" env:"NL2SQL_BATCH_WORKERS" env-default:"4"`
	Extensions []string `yaml:"extensions" env:"NL2SQL_BATCH_EXTENSIONS" env-default:"txt,nlq,md"`
	Exclude    []string `yaml:"exclude" env:"NL2SQL_BATCH_EXCLUDE" env-default:".git,vendor"`
}

type OutputConfig struct {
	Format string `yaml:"format" env:"NL2SQL_OUTPUT_FORMAT" env-default:"json"`
	Pretty bool   `yaml:"pretty" env:"NL2SQL_OUTPUT_PRETTY" env-default:"false"`
	Audit  bool   `yaml:"audit" env:"NL2SQL_OUTPUT_AUDIT" env-default:"false"`
}

// Load reads path with environment overrides. When path does not exist and
// required is false, only the environment and defaults apply.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return cfg, nil
		case required || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Engine.URL == "" && c.Engine.Fixtures == "" {
		fail("engine.url or engine.fixtures must be set")
	}
	if err := nlp.ValidateModel(c.Engine.Model); err != nil {
		fail("engine.model: %v", err)
	}
	if c.Engine.Timeout <= 0 {
		fail("engine.timeout must be positive")
	}
	if c.Engine.Retries < 0 {
		fail("engine.retries must not be negative")
	}
	if c.Schema.Table == "" {
		fail("schema.table must be set")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		fail("log.level: %v", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		fail("server.port %d out of range", c.Server.Port)
	}
	if c.Batch.Workers < 1 {
		fail("batch.workers must be at least 1")
	}
	if !reporter.ValidFormat(c.Output.Format) {
		fail("output.format %q (want sql, json or both)", c.Output.Format)
	}

	return errors.Join(errs...)
}

// EngineOptions converts the engine section for nlp.Open.
func (c *Config) EngineOptions() nlp.Options {
	return nlp.Options{
		URL:          c.Engine.URL,
		Model:        c.Engine.Model,
		FixturesPath: c.Engine.Fixtures,
		Timeout:      c.Engine.Timeout,
		MaxRetries:   c.Engine.Retries,
	}
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
