// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// HardMaxPages is the global page cap. Profile and CLI overrides are clamped
// to it regardless of what they request.
const HardMaxPages = 1000

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawl    CrawlConfig        `mapstructure:"crawl"`
	Fetch    FetchConfig        `mapstructure:"fetch"`
	Output   OutputConfig       `mapstructure:"output"`
	Storage  StorageConfig      `mapstructure:"storage"`
	Server   ServerConfig       `mapstructure:"server"`
	Logging  LoggingConfig      `mapstructure:"logging"`
	Profiles map[string]Profile `mapstructure:"profiles"`
}

// CrawlConfig is the resolved scope and budget for one run.
type CrawlConfig struct {
	AllowedDomain          string        `mapstructure:"allowed_domain"`
	SeedURLs               []string      `mapstructure:"seed_urls"`
	AllowedPathPrefixes    []string      `mapstructure:"allowed_path_prefixes"`
	DisallowedPathPrefixes []string      `mapstructure:"disallowed_path_prefixes"`
	MaxPages               int           `mapstructure:"max_pages"`
	MaxDepth               int           `mapstructure:"max_depth"`
	Delay                  time.Duration `mapstructure:"delay"`
	DryRun                 bool          `mapstructure:"dry_run"`
}

// Profile is a named, site-specific crawl scope that can be selected at the
// CLI. Profile values overlay the base crawl section.
type Profile struct {
	AllowedDomain          string        `mapstructure:"allowed_domain"`
	SeedURLs               []string      `mapstructure:"seed_urls"`
	AllowedPathPrefixes    []string      `mapstructure:"allowed_path_prefixes"`
	DisallowedPathPrefixes []string      `mapstructure:"disallowed_path_prefixes"`
	MaxPages               int           `mapstructure:"max_pages"`
	MaxDepth               int           `mapstructure:"max_depth"`
	Delay                  time.Duration `mapstructure:"delay"`
}

// FetchConfig configures the HTTP fetch transport.
type FetchConfig struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes"`
}

// OutputConfig sets where JSONL records land.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects the record sink backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DSN     string `mapstructure:"dsn"`
	Table   string `mapstructure:"table"`
}

// ServerConfig controls the optional status/metrics endpoint.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.max_pages", 200)
	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.delay", "500ms")
	v.SetDefault("crawl.dry_run", false)
	v.SetDefault("fetch.user_agent", "harvester/1.0 (+https://github.com/corpuskit/harvester)")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.max_body_bytes", 5*1024*1024)
	v.SetDefault("output.path", "output_data/documents.jsonl")
	v.SetDefault("storage.backend", "jsonl")
	v.SetDefault("storage.table", "documents")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 9090)
	v.SetDefault("logging.development", true)

	// Built-in profile for the CFPB consumer help corpus, the site this
	// pipeline was originally tuned against.
	v.SetDefault("profiles.cfpb.allowed_domain", "www.consumerfinance.gov")
	v.SetDefault("profiles.cfpb.seed_urls", []string{
		"https://www.consumerfinance.gov/ask-cfpb/",
	})
	v.SetDefault("profiles.cfpb.allowed_path_prefixes", []string{
		"/consumer-tools/credit-cards/answers/",
		"/ask-cfpb/",
	})
	v.SetDefault("profiles.cfpb.disallowed_path_prefixes", []string{
		"/ask-cfpb/search",
		"/askcfpb/search",
	})
	v.SetDefault("profiles.cfpb.max_pages", 200)
	v.SetDefault("profiles.cfpb.max_depth", 2)
}

// ApplyProfile overlays the named profile onto the crawl section. Scope
// fields (domain, seeds, prefixes) replace the base; budget fields apply
// only when the profile sets them.
func (c *Config) ApplyProfile(name string) error {
	if name == "" {
		return nil
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	c.Crawl.AllowedDomain = profile.AllowedDomain
	c.Crawl.SeedURLs = profile.SeedURLs
	c.Crawl.AllowedPathPrefixes = profile.AllowedPathPrefixes
	c.Crawl.DisallowedPathPrefixes = profile.DisallowedPathPrefixes
	if profile.MaxPages > 0 {
		c.Crawl.MaxPages = profile.MaxPages
	}
	if profile.MaxDepth > 0 {
		c.Crawl.MaxDepth = profile.MaxDepth
	}
	if profile.Delay > 0 {
		c.Crawl.Delay = profile.Delay
	}
	return nil
}

// Validate enforces required values, and clamps max_pages to the global
// hard cap. Violations here abort the run before it starts.
func (c *Config) Validate() error {
	if c.Crawl.AllowedDomain == "" {
		return fmt.Errorf("crawl.allowed_domain must not be empty")
	}
	if len(c.Crawl.SeedURLs) == 0 {
		return fmt.Errorf("crawl.seed_urls must not be empty")
	}
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be > 0")
	}
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("crawl.max_depth must be >= 0")
	}
	if c.Crawl.MaxPages > HardMaxPages {
		c.Crawl.MaxPages = HardMaxPages
	}
	switch c.Storage.Backend {
	case "jsonl":
		if c.Output.Path == "" {
			return fmt.Errorf("output.path must be set for the jsonl backend")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return nil
}
