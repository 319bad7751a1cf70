// Package pipeline runs one building request end to end: impact analysis,
// narrative report, and history persistence.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/impact"
	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/internal/report"
	"github.com/sells-group/impact-cli/internal/store"
)

// RunOptions adjusts a single run.
type RunOptions struct {
	// SkipReport leaves AIReport nil.
	SkipReport bool
	// SkipSave does not write the result to the history store.
	SkipSave bool
}

// Pipeline orchestrates analysis, narration and persistence.
type Pipeline struct {
	analyzer *impact.Analyzer
	primary  report.Generator
	fallback report.Generator
	store    store.Store
	newID    func() string
	now      func() time.Time
}

// New creates a Pipeline. primary and st may be nil: without a primary
// generator every report comes from fallback, and without a store nothing
// is persisted.
func New(analyzer *impact.Analyzer, primary, fallback report.Generator, st store.Store) *Pipeline {
	if fallback == nil {
		fallback = report.NewTemplateGenerator()
	}
	return &Pipeline{
		analyzer: analyzer,
		primary:  primary,
		fallback: fallback,
		store:    st,
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
}

// Store returns the history store, or nil when persistence is disabled.
func (p *Pipeline) Store() store.Store {
	return p.store
}

// Analyzer returns the impact analyzer.
func (p *Pipeline) Analyzer() *impact.Analyzer {
	return p.analyzer
}

// Run analyzes req and returns the full response. Analysis errors are
// returned unchanged in kind (invalid input, unresolved zone). Report and
// store failures never fail the run.
func (p *Pipeline) Run(ctx context.Context, req model.BuildingRequest, opts RunOptions) (*model.BuildingAnalysisResponse, error) {
	id := p.newID()
	log := zap.L().With(zap.String("building_id", id))

	analysis, err := p.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: analyze")
	}

	resp := &model.BuildingAnalysisResponse{
		BuildingID: id,
		Building:   req,
		Analysis:   *analysis,
		CreatedAt:  p.now().UTC(),
	}

	if !opts.SkipReport {
		start := time.Now()
		resp.AIReport = report.Narrate(ctx, p.primary, p.fallback, report.Input{Building: req, Analysis: analysis})
		log.Debug("pipeline: report complete",
			zap.String("source", string(resp.AIReport.Source)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	if p.store != nil && !opts.SkipSave {
		if err := p.store.SaveAnalysis(ctx, resp); err != nil {
			log.Warn("pipeline: failed to save analysis", zap.Error(err))
		}
	}

	log.Info("pipeline: building analyzed",
		zap.String("zone", resp.Zoning.Zone),
		zap.Bool("compliant", resp.Zoning.Compliant),
		zap.Int("bottlenecks", len(resp.Bottlenecks)),
	)
	return resp, nil
}
