package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/svgjww/viewer/internal/document"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DocumentPath   string `envconfig:"DOCUMENT_PATH"`
	ParserCommand  string `envconfig:"PARSER_COMMAND"`
	StaticDir      string `envconfig:"STATIC_DIR" default:"./web"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parser returns the command that turns the watched file into parser JSON,
// or nil when the file is parser JSON already.
func (c *Config) Parser() document.ParseFunc {
	fields := strings.Fields(c.ParserCommand)
	if len(fields) == 0 {
		return nil
	}
	return document.CommandParser(fields[0], fields[1:]...)
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns returns the origins without scheme, as the websocket
// handshake expects them.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	out := make([]string, len(origins))
	for i, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		out[i] = strings.TrimPrefix(o, "http://")
	}
	return out
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
