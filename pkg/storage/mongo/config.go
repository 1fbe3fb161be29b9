package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

type Config struct {
	Host   string `toml:"host"`
	Port   string `toml:"port"`
	DBName string `toml:"dbName"`
	User   string `toml:"user"`
	Pass   string `toml:"-"`
}

// Validate reports the first missing required parameter.
func (c *Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: host", ErrConfParamMissing)
	case c.Port == "":
		return fmt.Errorf("%w: port", ErrConfParamMissing)
	case c.DBName == "":
		return fmt.Errorf("%w: dbName", ErrConfParamMissing)
	}
	return nil
}

func (c *Config) conString() string {
	if c.User != "" && c.Pass != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/", c.User, c.Pass, c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s/", c.Host, c.Port)
}

func (c *Config) Options() *options.ClientOptions {
	return options.Client().ApplyURI(c.conString())
}

func (c Config) String() string {
	if c.Pass != "" {
		c.Pass = "****"
	}
	return fmt.Sprintf("%#v", c)
}
