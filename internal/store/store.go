// Package store persists the analysis history. SQLite is the default
// backend; Postgres is used when the catalog also lives there.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/impact-cli/internal/config"
	"github.com/sells-group/impact-cli/internal/model"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// defaultListLimit applies when a filter leaves Limit unset.
const defaultListLimit = 50

// AnalysisFilter specifies criteria for listing analyses.
type AnalysisFilter struct {
	Zone   string `json:"zone,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (f AnalysisFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for analysis history.
type Store interface {
	SaveAnalysis(ctx context.Context, resp *model.BuildingAnalysisResponse) error
	// GetAnalysis returns an error wrapping model.ErrNotFound for unknown IDs.
	GetAnalysis(ctx context.Context, id string) (*model.BuildingAnalysisResponse, error)
	// ListAnalyses returns summaries, newest first.
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisSummary, error)

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Driver. The none driver returns a
// nil Store, meaning persistence is disabled.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return NewSQLite(cfg.DatabaseURL)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	case DriverNone:
		return nil, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
