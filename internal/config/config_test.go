package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Crawl: CrawlConfig{
			AllowedDomain: "example.org",
			SeedURLs:      []string{"https://example.org/"},
			MaxPages:      50,
			MaxDepth:      2,
		},
		Output:  OutputConfig{Path: "out.jsonl"},
		Storage: StorageConfig{Backend: "jsonl"},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Crawl.MaxPages)
	assert.Equal(t, 2, cfg.Crawl.MaxDepth)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawl.Delay)
	assert.Equal(t, "jsonl", cfg.Storage.Backend)
	assert.Equal(t, "output_data/documents.jsonl", cfg.Output.Path)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)

	// The cfpb profile ships built in.
	profile, ok := cfg.Profiles["cfpb"]
	require.True(t, ok)
	assert.Equal(t, "www.consumerfinance.gov", profile.AllowedDomain)
	assert.NotEmpty(t, profile.SeedURLs)
	assert.Contains(t, profile.AllowedPathPrefixes, "/ask-cfpb/")
	assert.Contains(t, profile.DisallowedPathPrefixes, "/ask-cfpb/search")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawl:
  allowed_domain: docs.example.org
  seed_urls:
    - https://docs.example.org/
  max_pages: 25
  delay: 2s
storage:
  backend: postgres
  dsn: postgres://localhost/harvester
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs.example.org", cfg.Crawl.AllowedDomain)
	assert.Equal(t, 25, cfg.Crawl.MaxPages)
	assert.Equal(t, 2*time.Second, cfg.Crawl.Delay)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	// Defaults still apply where the file is silent.
	assert.Equal(t, 2, cfg.Crawl.MaxDepth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyProfileOverlaysScope(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Crawl.AllowedDomain = "example.org"
	cfg.Crawl.SeedURLs = []string{"https://example.org/"}

	require.NoError(t, cfg.ApplyProfile("cfpb"))
	assert.Equal(t, "www.consumerfinance.gov", cfg.Crawl.AllowedDomain)
	assert.Equal(t, []string{"https://www.consumerfinance.gov/ask-cfpb/"}, cfg.Crawl.SeedURLs)
	assert.Equal(t, 200, cfg.Crawl.MaxPages)
}

func TestApplyProfileKeepsBudgetWhenUnset(t *testing.T) {
	cfg := validConfig()
	cfg.Profiles = map[string]Profile{
		"sparse": {
			AllowedDomain: "docs.example.org",
			SeedURLs:      []string{"https://docs.example.org/"},
		},
	}

	require.NoError(t, cfg.ApplyProfile("sparse"))
	assert.Equal(t, "docs.example.org", cfg.Crawl.AllowedDomain)
	assert.Equal(t, 50, cfg.Crawl.MaxPages, "budget fields survive when the profile leaves them unset")
	assert.Equal(t, 2, cfg.Crawl.MaxDepth)
}

func TestApplyProfileUnknown(t *testing.T) {
	cfg := validConfig()
	err := cfg.ApplyProfile("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestApplyProfileEmptyNameIsNoop(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ApplyProfile(""))
	assert.Equal(t, "example.org", cfg.Crawl.AllowedDomain)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing domain", func(c *Config) { c.Crawl.AllowedDomain = "" }, false},
		{"no seeds", func(c *Config) { c.Crawl.SeedURLs = nil }, false},
		{"zero max pages", func(c *Config) { c.Crawl.MaxPages = 0 }, false},
		{"negative max depth", func(c *Config) { c.Crawl.MaxDepth = -1 }, false},
		{"jsonl without path", func(c *Config) { c.Output.Path = "" }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = "postgres" }, false},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Backend = "postgres"
			c.Storage.DSN = "postgres://localhost/harvester"
		}, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, false},
		{"server enabled without port", func(c *Config) { c.Server.Enabled = true }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateClampsToHardCap(t *testing.T) {
	cfg := validConfig()
	cfg.Crawl.MaxPages = 50000
	require.NoError(t, cfg.Validate())
	assert.Equal(t, HardMaxPages, cfg.Crawl.MaxPages)
}
