package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent tokenbench configuration stored as
// config.toml in the .tokenbench/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Server     ServerConfig     `toml:"server"`
	Load       LoadConfig       `toml:"load"`
	Generation GenerationConfig `toml:"generation"`
}

// ServerConfig holds the target endpoint settings.
type ServerConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
}

// LoadConfig holds the load-shape settings for a benchmark batch.
type LoadConfig struct {
	Parallel       uint `toml:"parallel,omitempty"`
	Requests       uint `toml:"requests,omitempty"`
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`
}

// GenerationConfig holds the generation parameters sent with every request.
// Stream is a pointer so an absent key can be told apart from an explicit
// "stream = false".
type GenerationConfig struct {
	MaxTokens   int     `toml:"max_tokens,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
	PromptSize  string  `toml:"prompt_size,omitempty"`
	Stream      *bool   `toml:"stream,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.base_url": {
		get: func(c *Config) string { return c.Server.BaseURL },
		set: func(c *Config, v string) error { c.Server.BaseURL = v; return nil },
	},
	"server.model": {
		get: func(c *Config) string { return c.Server.Model },
		set: func(c *Config, v string) error { c.Server.Model = v; return nil },
	},
	"server.api_key": {
		get: func(c *Config) string { return c.Server.APIKey },
		set: func(c *Config, v string) error { c.Server.APIKey = v; return nil },
	},
	"load.parallel": {
		get: func(c *Config) string { return formatUint(c.Load.Parallel) },
		set: func(c *Config, v string) error {
			parsed, err := parseUint("load.parallel", v)
			if err != nil {
				return err
			}
			c.Load.Parallel = parsed
			return nil
		},
	},
	"load.requests": {
		get: func(c *Config) string { return formatUint(c.Load.Requests) },
		set: func(c *Config, v string) error {
			parsed, err := parseUint("load.requests", v)
			if err != nil {
				return err
			}
			c.Load.Requests = parsed
			return nil
		},
	},
	"load.timeout_seconds": {
		get: func(c *Config) string { return formatUint(c.Load.TimeoutSeconds) },
		set: func(c *Config, v string) error {
			parsed, err := parseUint("load.timeout_seconds", v)
			if err != nil {
				return err
			}
			c.Load.TimeoutSeconds = parsed
			return nil
		},
	},
	"generation.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Generation.MaxTokens) },
		set: func(c *Config, v string) error {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				return fmt.Errorf("generation.max_tokens must be a positive integer, got %q", v)
			}
			c.Generation.MaxTokens = parsed
			return nil
		},
	},
	"generation.temperature": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Generation.Temperature, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("generation.temperature must be a number, got %q", v)
			}
			c.Generation.Temperature = parsed
			return nil
		},
	},
	"generation.prompt_size": {
		get: func(c *Config) string { return c.Generation.PromptSize },
		set: func(c *Config, v string) error { c.Generation.PromptSize = v; return nil },
	},
	"generation.stream": {
		get: func(c *Config) string {
			if c.Generation.Stream == nil {
				return ""
			}
			return strconv.FormatBool(*c.Generation.Stream)
		},
		set: func(c *Config, v string) error {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("generation.stream must be true or false, got %q", v)
			}
			c.Generation.Stream = &parsed
			return nil
		},
	},
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func parseUint(key, v string) (uint, error) {
	parsed, err := strconv.ParseUint(v, 10, 32)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return uint(parsed), nil
}
