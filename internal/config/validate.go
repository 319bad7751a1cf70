package config

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings a command mode depends on. Every problem is
// reported in one error.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Heatmap.CacheEntries < 1 {
			errs = append(errs, "heatmap.cache_entries must be >= 1")
		}
		if c.Heatmap.CacheTTLMins < 0 {
			errs = append(errs, "heatmap.cache_ttl_mins must be >= 0")
		}
		errs = append(errs, c.storeErrors()...)
		errs = append(errs, c.catalogErrors()...)
		errs = append(errs, c.analysisErrors()...)
	case "analyze":
		errs = append(errs, c.catalogErrors()...)
		errs = append(errs, c.analysisErrors()...)
	case "store":
		errs = append(errs, c.storeErrors()...)
		if c.Store.Driver == "none" {
			errs = append(errs, "store.driver must not be none for history commands")
		}
	case "catalog-load":
		if c.Store.Driver != "postgres" {
			errs = append(errs, "store.driver must be postgres to load the catalog")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
		if c.Catalog.Source == "postgres" {
			errs = append(errs, "catalog.source must not be postgres when loading into postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) storeErrors() []string {
	var errs []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "none":
	default:
		errs = append(errs, "store.driver must be one of sqlite, postgres, none")
	}
	return errs
}

func (c *Config) catalogErrors() []string {
	var errs []string
	switch c.Catalog.Source {
	case "", "file":
	case "postgres":
		if c.Store.Driver != "postgres" {
			errs = append(errs, "catalog.source postgres requires store.driver postgres")
		}
	default:
		errs = append(errs, "catalog.source must be file or postgres")
	}
	return errs
}

func (c *Config) analysisErrors() []string {
	var errs []string
	a := c.Analysis
	if math.Abs(a.ElementaryShare+a.MiddleShare+a.HighShare-1) > 1e-9 {
		errs = append(errs, "analysis grade shares must sum to 1")
	}
	if a.WalkSpeedMPS <= 0 {
		errs = append(errs, "analysis.walk_speed_mps must be > 0")
	}
	if a.TrafficDecayM <= 0 {
		errs = append(errs, "analysis.traffic_decay_m must be > 0")
	}
	if a.FeetPerStory <= 0 {
		errs = append(errs, "analysis.feet_per_story must be > 0")
	}
	return errs
}
