package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/source"
)

const sampleYAML = `
app:
  data_dir: ./data
run:
  workers: 8
sources:
  - name: acme
    company: Acme Corp
    url: https://boards.greenhouse.io/acme
  - name: beta
    url: https://beta.example.com/careers
    platform: browser
companies:
  aliases:
    atacama: Ataccama
quality:
  max_empty_location_frac: 0.25
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "jobsift.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadMergesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.App.DataDir)
	assert.Equal(t, 8, cfg.Run.Workers)
	// untouched fields keep their defaults
	assert.Equal(t, 40, cfg.Run.DetailFetchBudget)
	assert.Equal(t, 0.70, cfg.Quality.MaxEmptyDateFrac)
	assert.Equal(t, 0.25, cfg.Quality.MaxEmptyLocationFrac)
	assert.Equal(t, "Ataccama", cfg.Companies.Aliases["atacama"])
	require.Len(t, cfg.Sources, 2)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no sources", func(c *Config) { c.Sources = nil }, "no sources"},
		{"duplicate name", func(c *Config) { c.Sources[1].Name = "acme" }, "duplicate"},
		{"missing url", func(c *Config) { c.Sources[0].URL = "" }, "no url"},
		{"bad platform", func(c *Config) { c.Sources[0].Platform = "ftp" }, "unknown platform"},
		{"zero workers", func(c *Config) { c.Run.Workers = 0 }, "workers"},
		{"frac out of range", func(c *Config) { c.Quality.MaxEmptyDateFrac = 1.5 }, "[0,1]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sources = []Source{
				{Name: "acme", URL: "https://a.example.com"},
				{Name: "beta", URL: "https://b.example.com"},
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSourceDescriptor(t *testing.T) {
	s := Source{Name: "acme", URL: "https://x.com", Platform: "browser", Vendor: "workday"}
	d := s.Descriptor()
	assert.Equal(t, source.KindBrowserRendered, d.Kind)
	assert.Equal(t, source.Vendor("workday"), d.Vendor)
	// company falls back to the source name
	assert.Equal(t, "acme", d.Company)

	assert.Equal(t, source.KindUnknown, Source{Platform: "auto"}.Descriptor().Kind)
}
