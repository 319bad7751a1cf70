package impact

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/model"
)

// Analyzer runs every calculator for a building against a shared catalog.
// It is safe for concurrent use.
type Analyzer struct {
	catalog *catalog.Catalog
	params  Params
}

// NewAnalyzer creates an Analyzer over a loaded catalog.
func NewAnalyzer(cat *catalog.Catalog, params Params) *Analyzer {
	return &Analyzer{catalog: cat, params: params}
}

// Params returns the rates the analyzer was built with.
func (a *Analyzer) Params() Params { return a.params }

// Catalog returns the reference catalog.
func (a *Analyzer) Catalog() *catalog.Catalog { return a.catalog }

// Analyze validates req, resolves its zoning district and computes the full
// analysis. The calculators run concurrently; the result matches a
// sequential run.
func (a *Analyzer) Analyze(ctx context.Context, req model.BuildingRequest) (*model.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rule, err := a.zoningRule(req)
	if err != nil {
		return nil, err
	}

	var (
		res = &model.Analysis{}
		cat = a.catalog
		p   = a.params
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { res.Zoning = CheckZoning(rule, req.Stories, p.FeetPerStory) })
	run(func() { res.SchoolImpact = SchoolImpact(req.Location, req.Units, cat.Schools, p) })
	run(func() { res.TrafficImpact = TrafficImpact(req.Location, req.Units, cat.Intersections, p) })
	run(func() { res.TransitAccess = TransitAccess(req.Location, cat.Stations, p) })
	run(func() { res.Infrastructure = InfrastructureImpact(req.Units, p) })
	run(func() { res.ShadowAnalysis = ShadowImpact(req.Footprint, req.Stories, p) })
	run(func() { res.EconomicImpact = EconomicImpact(req.Location, req.Units, req.Stories, p) })

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "impact: analyze")
	}

	res.Bottlenecks = AggregateBottlenecks(res.Zoning, res.SchoolImpact, res.TrafficImpact, res.Infrastructure)

	zap.L().Debug("impact: analysis complete",
		zap.String("zone", res.Zoning.Zone),
		zap.Int("units", req.Units),
		zap.Int("stories", req.Stories),
		zap.Int("bottlenecks", len(res.Bottlenecks)),
	)
	return res, nil
}

// zoningRule returns the rule for the request's zone override, or for the
// district containing the building.
func (a *Analyzer) zoningRule(req model.BuildingRequest) (model.ZoningRule, error) {
	code := req.Zone
	if code == "" {
		resolved, err := a.catalog.ResolveZone(req.Location)
		if err != nil {
			return model.ZoningRule{}, err
		}
		code = resolved
	}

	rule, ok := a.catalog.Rule(code)
	if !ok {
		return model.ZoningRule{}, eris.Wrapf(model.ErrInvalidInput, "unknown zone code %q", code)
	}
	return rule, nil
}
