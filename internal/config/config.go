package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobsift-engine/internal/source"
)

type Source struct {
	Name     string `yaml:"name"`
	Company  string `yaml:"company"`
	URL      string `yaml:"url"`
	Platform string `yaml:"platform"` // feedapi | html | browser | auto
	Vendor   string `yaml:"vendor"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Run struct {
		Workers           int     `yaml:"workers"`
		SourceTimeoutSecs int     `yaml:"source_timeout_seconds"`
		DeadlineSecs      int     `yaml:"deadline_seconds"`
		RequestsPerSec    float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		DetailFetchBudget int     `yaml:"detail_fetch_budget"`
		BrowserTimeoutSec int     `yaml:"browser_timeout_seconds"`
	} `yaml:"run"`

	Sources []Source `yaml:"sources"`

	Companies struct {
		Aliases map[string]string `yaml:"aliases"`
	} `yaml:"companies"`

	Quality struct {
		MaxEmptyLocationFrac     float64 `yaml:"max_empty_location_frac"`
		MaxEmptyDateFrac         float64 `yaml:"max_empty_date_frac"`
		WarnUnknownSeniorityFrac float64 `yaml:"warn_unknown_seniority_frac"`
	} `yaml:"quality"`
}

func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.Run.Workers = 4
	cfg.Run.SourceTimeoutSecs = 120
	cfg.Run.DeadlineSecs = 900
	cfg.Run.RequestsPerSec = 2
	cfg.Run.Burst = 4
	cfg.Run.DetailFetchBudget = 40
	cfg.Run.BrowserTimeoutSec = 30
	cfg.Quality.MaxEmptyLocationFrac = 0.40
	cfg.Quality.MaxEmptyDateFrac = 0.70
	cfg.Quality.WarnUnknownSeniorityFrac = 0.30
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("config: no sources configured")
	}
	seen := map[string]bool{}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("config: sources[%d] has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("config: source %q has no url", s.Name)
		}
		switch s.Platform {
		case "", "auto", "feedapi", "html", "browser":
		default:
			return fmt.Errorf("config: source %q has unknown platform %q", s.Name, s.Platform)
		}
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("config: run.workers must be >= 1")
	}
	for name, frac := range map[string]float64{
		"quality.max_empty_location_frac":     c.Quality.MaxEmptyLocationFrac,
		"quality.max_empty_date_frac":         c.Quality.MaxEmptyDateFrac,
		"quality.warn_unknown_seniority_frac": c.Quality.WarnUnknownSeniorityFrac,
	} {
		if frac < 0 || frac > 1 {
			return fmt.Errorf("config: %s must be within [0,1]", name)
		}
	}
	return nil
}

// Descriptor converts a configured source into the dispatcher's input.
func (s Source) Descriptor() source.Descriptor {
	d := source.Descriptor{
		Name:    s.Name,
		Company: s.Company,
		URL:     s.URL,
		Vendor:  source.Vendor(s.Vendor),
	}
	if d.Company == "" {
		d.Company = s.Name
	}
	switch s.Platform {
	case "feedapi":
		d.Kind = source.KindFeedAPI
	case "html":
		d.Kind = source.KindStructuredHTML
	case "browser":
		d.Kind = source.KindBrowserRendered
	default:
		d.Kind = source.KindUnknown
	}
	return d
}
