// Package config provides the process configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/conversation"
	"github.com/effective-security/toolchat/mcp/mcpclient"
	"github.com/effective-security/toolchat/pkg/llms/googleai"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMemory = store.DriverMemory
	DriverSQLite = store.DriverSQLite
	DriverRedis  = store.DriverRedis
)

// DefaultListenAddr is the API listen address
const DefaultListenAddr = ":8080"

// Config of the process
type Config struct {
	Model        ModelConfig        `json:"model" yaml:"model"`
	Tools        ToolsConfig        `json:"tools" yaml:"tools"`
	Conversation ConversationConfig `json:"conversation" yaml:"conversation"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Server       ServerConfig       `json:"server" yaml:"server"`
}

// ModelConfig configures the completion model
type ModelConfig struct {
	// APIKey falls back to GOOGLE_API_KEY or GEMINI_API_KEY environment variables
	APIKey  string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model   string   `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL string   `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ToolsConfig configures the calls to the tool servers
type ToolsConfig struct {
	// Timeout bounds each outbound tool call
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Concurrency is the number of tool calls dispatched in parallel,
	// 1 dispatches sequentially.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0,lte=64"`
}

// ConversationConfig configures the conversation controller
type ConversationConfig struct {
	HistoryLimit int `json:"history_limit,omitempty" yaml:"history_limit,omitempty" validate:"gte=0,lte=1000"`
}

// StoreConfig configures the record store
type StoreConfig struct {
	// Driver is one of memory, sqlite or redis
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" validate:"omitempty,oneof=memory sqlite redis"`
	// DSN is the sqlite file path or the redis URL
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Prefix for redis keys
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	// Tokens maps a bearer token to the owner
	Tokens map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// Load returns the configuration from the file,
// an empty file name returns the default configuration.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load config: %s", file)
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults populates the missing values
func (c *Config) SetDefaults() {
	c.Model.APIKey = values.StringsCoalesce(c.Model.APIKey, os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	c.Model.Model = values.StringsCoalesce(c.Model.Model, googleai.DefaultModel)
	if c.Model.Timeout <= 0 {
		c.Model.Timeout = Duration(googleai.DefaultTimeout)
	}

	if c.Tools.Timeout <= 0 {
		c.Tools.Timeout = Duration(mcpclient.DefaultTimeout)
	}
	c.Tools.Concurrency = values.NumbersCoalesce(c.Tools.Concurrency, conversation.DefaultToolConcurrency)

	c.Conversation.HistoryLimit = values.NumbersCoalesce(c.Conversation.HistoryLimit, conversation.DefaultHistoryLimit)

	c.Store.Driver = values.StringsCoalesce(strings.ToLower(c.Store.Driver), DriverMemory)

	c.Server.ListenAddr = values.StringsCoalesce(c.Server.ListenAddr, DefaultListenAddr)
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverRedis:
		if c.Store.DSN == "" {
			return errors.Newf("invalid config: store.dsn is required for %s driver", c.Store.Driver)
		}
	}
	for token, owner := range c.Server.Tokens {
		if token == "" || owner == "" {
			return errors.New("invalid config: server.tokens must map a non-empty token to a non-empty owner")
		}
	}
	return nil
}

// Dump returns YAML of the configuration with secrets redacted
func (c *Config) Dump() (string, error) {
	cp := *c
	if cp.Model.APIKey != "" {
		cp.Model.APIKey = "[redacted]"
	}
	cp.Server.Tokens = nil
	b, err := yaml.Marshal(&cp)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// Duration is time.Duration that decodes from "60s" or nanoseconds
type Duration time.Duration

// Std returns time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler,
// YAML decoders use it for scalar values.
func (d *Duration) UnmarshalText(b []byte) error {
	return d.parse(string(b))
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	return d.parse(strings.Trim(string(b), `"`))
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		n, nerr := strconv.ParseInt(s, 10, 64)
		if nerr != nil {
			return errors.Wrapf(err, "invalid duration: %q", s)
		}
		v = time.Duration(n)
	}
	*d = Duration(v)
	return nil
}

