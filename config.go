package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds the bot's runtime settings. Flags override file values.
type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		TLS      bool   `yaml:"tls"`
		Password string `yaml:"password"`
	} `yaml:"server"`

	Nick     string   `yaml:"nick"`
	User     string   `yaml:"user"`
	RealName string   `yaml:"realname"`
	Channels []string `yaml:"channels"`

	// Files are resolved against DataDir unless absolute.
	DataDir   string `yaml:"data-dir"`
	UsersFile string `yaml:"users-file"`
	LinksFile string `yaml:"links-file"`
	Namespace string `yaml:"namespace"`

	CommandPrefix string        `yaml:"command-prefix"`
	FlushInterval time.Duration `yaml:"flush-interval"`
	LogLevel      string        `yaml:"log-level"`
}

func defaultConfig() *Config {
	cfg := &Config{
		Nick:          "linkbot",
		User:          "linkbot",
		RealName:      "Account link bot",
		DataDir:       "data",
		UsersFile:     "users.db",
		LinksFile:     "links.json",
		Namespace:     "Links",
		CommandPrefix: "!",
		FlushInterval: 5 * time.Minute,
		LogLevel:      "info",
	}
	cfg.Server.Addr = "127.0.0.1:6667"
	return cfg
}

// LoadConfig reads filename over the defaults. An empty filename returns the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := defaultConfig()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server address is required")
	case c.Nick == "":
		return errors.New("nick is required")
	case c.LinksFile == "" || c.UsersFile == "":
		return errors.New("users-file and links-file are required")
	case c.FlushInterval < 0:
		return errors.New("flush-interval must not be negative")
	}
	if c.User == "" {
		c.User = c.Nick
	}
	if c.Namespace == "" {
		c.Namespace = c.Nick
	}
	return nil
}
