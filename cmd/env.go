package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/db"
	"github.com/sells-group/impact-cli/internal/impact"
	"github.com/sells-group/impact-cli/internal/pipeline"
	"github.com/sells-group/impact-cli/internal/report"
	"github.com/sells-group/impact-cli/internal/store"
	anthropicpkg "github.com/sells-group/impact-cli/pkg/anthropic"
)

// appEnv holds the store, catalog and pipeline shared by serve and analyze.
type appEnv struct {
	Store    store.Store // nil when store.driver is none
	Catalog  *catalog.Catalog
	Pipeline *pipeline.Pipeline
}

// Close releases the store.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens and migrates the configured history store. It returns a
// nil store when persistence is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if st == nil {
		zap.L().Info("analysis history disabled")
		return nil, nil
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// storePool returns the pgx pool behind a Postgres store, or nil.
func storePool(st store.Store) db.Pool {
	if ps, ok := st.(*store.PostgresStore); ok {
		return ps.Pool()
	}
	return nil
}

func initCatalog(ctx context.Context, st store.Store) (*catalog.Catalog, error) {
	return catalog.Load(ctx, catalog.Options{
		Source:          cfg.Catalog.Source,
		Path:            cfg.Catalog.Path,
		ZoningShapefile: cfg.Catalog.ZoningShapefile,
	}, storePool(st))
}

// initReportGenerator returns the Claude generator, or nil when no API key
// is configured and every report comes from the template.
func initReportGenerator() report.Generator {
	if cfg.Anthropic.Key == "" {
		zap.L().Info("IMPACT_ANTHROPIC_KEY not set, using template reports")
		return nil
	}
	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	return report.NewClaudeGenerator(client, report.ClaudeConfig{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		Timeout:           time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Anthropic.RequestsPerSecond,
		Guard:             report.DefaultGuardConfig(),
	})
}

// initApp sets up the store, catalog and pipeline. Callers should defer
// env.Close().
func initApp(ctx context.Context, mode string, withStore bool) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	params := impact.ParamsFromConfig(cfg.Analysis)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var st store.Store
	if withStore {
		var err error
		if st, err = initStore(ctx); err != nil {
			return nil, err
		}
	}

	cat, err := initCatalog(ctx, st)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, eris.Wrap(err, "load catalog")
	}

	p := pipeline.New(impact.NewAnalyzer(cat, params), initReportGenerator(), nil, st)

	return &appEnv{Store: st, Catalog: cat, Pipeline: p}, nil
}
