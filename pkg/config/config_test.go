package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"

	"moderation/pkg/storage/mongo"
)

const testConfig = `
serviceName = "moderation-test"
httpAddr = ":9000"
logLevel = "debug"
lexiconPath = "words.json"

[kafka]
addr = "localhost:9092"
eventTopic = "moderation"

[mongo]
host = "localhost"
port = "27017"
dbName = "moderation"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("MONGO_PASS", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServiceName != "moderation-test" || cfg.HTTPAddr != ":9000" || cfg.LexiconPath != "words.json" {
		t.Errorf("unexpected config values: %+v", cfg)
	}
	if cfg.MaskChar != "*" {
		t.Errorf("want default mask char %q, got %q", "*", cfg.MaskChar)
	}
	if cfg.Kafka.Batch != 1 {
		t.Errorf("want default kafka batch 1, got %d", cfg.Kafka.Batch)
	}
	if !cfg.KafkaEnabled() {
		t.Error("want kafka enabled")
	}
	if cfg.Mongo.Pass != "secret" {
		t.Errorf("want mongo password from environment, got %q", cfg.Mongo.Pass)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("want level %v, got %v", log.DebugLevel, cfg.Level())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Defaults()
	valid.Mongo = mongo.Config{Host: "localhost", Port: "27017", DBName: "moderation"}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{"Valid", func(c *Config) {}, nil},
		{"Dev mode without mongo", func(c *Config) { c.Dev = true; c.Mongo = mongo.Config{} }, nil},
		{"Missing http addr", func(c *Config) { c.HTTPAddr = "" }, ErrConfParamMissing},
		{"Missing mongo host", func(c *Config) { c.Mongo.Host = "" }, mongo.ErrConfParamMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("want error %v, got %v", tt.wantErr, err)
			}
		})
	}

	for _, mask := range []string{"##", "", "x", "7", "_", " ", "Ж"} {
		c := valid
		c.MaskChar = mask
		if err := c.Validate(); err == nil {
			t.Errorf("want error for mask char %q", mask)
		}
	}

	for _, mask := range []string{"#", "•", "-"} {
		c := valid
		c.MaskChar = mask
		if err := c.Validate(); err != nil {
			t.Errorf("unexpected error for mask char %q: %v", mask, err)
		}
	}
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		c := Config{LogLevel: tt.level}
		if got := c.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v; want %v", tt.level, got, tt.want)
		}
	}
}

func TestConfig_MaskRune(t *testing.T) {
	c := Config{MaskChar: "#"}
	if got := c.MaskRune(); got != '#' {
		t.Errorf("want mask rune %q, got %q", '#', got)
	}
}
