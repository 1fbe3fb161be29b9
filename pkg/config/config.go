// Package config holds the moderation service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/censor"
	"moderation/pkg/storage/mongo"
)

var ErrConfParamMissing = errors.New("configuration parameter missing")

type Kafka struct {
	Addr       string `toml:"addr"`
	LogTopic   string `toml:"logTopic"`
	EventTopic string `toml:"eventTopic"`
	Batch      int    `toml:"batch"`
}

type Config struct {
	ServiceName string `toml:"serviceName"`
	HTTPAddr    string `toml:"httpAddr"`
	LogLevel    string `toml:"logLevel"`
	LexiconPath string `toml:"lexiconPath"`
	MaskChar    string `toml:"maskChar"`
	Dev         bool   `toml:"dev"`

	Kafka Kafka        `toml:"kafka"`
	Mongo mongo.Config `toml:"mongo"`
}

func Defaults() Config {
	return Config{
		ServiceName: "moderation",
		HTTPAddr:    ":8055",
		LogLevel:    "info",
		MaskChar:    "*",
		Kafka:       Kafka{Batch: 1},
	}
}

// Load decodes a TOML file on top of Defaults. The Mongo password is taken
// from MONGO_PASS.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Mongo.Pass = os.Getenv("MONGO_PASS")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: httpAddr", ErrConfParamMissing)
	}
	if !strings.Contains(c.HTTPAddr, ":") {
		log.Warn("[config] use ':' before port number, e.g. ':8080'")
	}
	if utf8.RuneCountInString(c.MaskChar) != 1 {
		return fmt.Errorf("maskChar must be a single character, got %q", c.MaskChar)
	}
	if !censor.ValidMaskRune(c.MaskRune()) {
		return fmt.Errorf("maskChar must not be a letter, digit, underscore or space, got %q", c.MaskChar)
	}
	if !c.Dev {
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MaskRune returns the configured mask character.
func (c *Config) MaskRune() rune {
	r, _ := utf8.DecodeRuneInString(c.MaskChar)
	return r
}

// KafkaEnabled reports whether a broker is configured.
func (c *Config) KafkaEnabled() bool {
	return c.Kafka.Addr != "" && (c.Kafka.LogTopic != "" || c.Kafka.EventTopic != "")
}

// Level maps the configured log level to a logrus level. Unknown values
// fall back to info.
func (c *Config) Level() log.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
