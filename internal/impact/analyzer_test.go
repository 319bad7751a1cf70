package impact

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/config"
	"github.com/sells-group/impact-cli/internal/model"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewAnalyzer(cat, DefaultParams())
}

func downtownRequest() model.BuildingRequest {
	return model.BuildingRequest{
		Location: center,
		Footprint: [][]float64{
			{-84.3885, 33.7587}, {-84.3875, 33.7587}, {-84.3875, 33.7593}, {-84.3885, 33.7593},
		},
		Type:    model.BuildingResidential,
		Units:   100,
		Stories: 10,
	}
}

func TestAnalyze_CityCenter(t *testing.T) {
	a := newTestAnalyzer(t)

	got, err := a.Analyze(context.Background(), downtownRequest())
	require.NoError(t, err)

	assert.Equal(t, "MR-3", got.Zoning.Zone)
	assert.True(t, got.Zoning.Compliant)
	assert.Equal(t, 150, *got.Zoning.MaxHeight)

	assert.InDelta(t, 30.0, got.SchoolImpact.StudentsGenerated, 1e-9)

	assert.Equal(t, 957, got.TrafficImpact.DailyTrips)
	assert.Equal(t, 105, got.TrafficImpact.PeakTrips.AM)
	assert.Equal(t, 114, got.TrafficImpact.PeakTrips.PM)
	require.NotEmpty(t, got.TrafficImpact.LOSImpacts)
	assert.Equal(t, "Peachtree St & Ellis St", got.TrafficImpact.LOSImpacts[0].Name)

	require.NotNil(t, got.TransitAccess.NearestStation)
	assert.Equal(t, "Peachtree Center", got.TransitAccess.NearestStation.Name)
	assert.Equal(t, model.TransitExcellent, got.TransitAccess.TransitScore)
	require.Len(t, got.TransitAccess.NearbyStations, 3)
	assert.Equal(t, "Five Points", got.TransitAccess.NearbyStations[1].Name)
	assert.Equal(t, "Civic Center", got.TransitAccess.NearbyStations[2].Name)

	assert.True(t, got.Infrastructure.InfrastructureAdequate)
	assert.Len(t, got.ShadowAnalysis.ShadowsByTime, 4)

	assert.InDelta(t, 440000.0, got.EconomicImpact.AnnualTaxRevenue, 1e-6)
	assert.Equal(t, 3.4, got.EconomicImpact.YearsToBreakeven)
	assert.Equal(t, 500, got.EconomicImpact.ConstructionJobs)
	assert.Equal(t, 4, got.EconomicImpact.PermanentJobs)

	// No zoning or infrastructure issues; schools first, then one traffic entry.
	require.NotEmpty(t, got.Bottlenecks)
	last := got.Bottlenecks[len(got.Bottlenecks)-1]
	assert.Equal(t, model.BottleneckTraffic, last.Type)
	for _, b := range got.Bottlenecks[:len(got.Bottlenecks)-1] {
		assert.Equal(t, model.BottleneckSchoolCapacity, b.Type)
	}
}

func TestAnalyze_MatchesSequentialRun(t *testing.T) {
	a := newTestAnalyzer(t)
	req := downtownRequest()
	req.Stories = 20
	req.Units = 400

	got, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	p := a.Params()
	cat := a.Catalog()
	rule, _ := cat.Rule("MR-3")
	want := model.Analysis{
		Zoning:         CheckZoning(rule, req.Stories, p.FeetPerStory),
		SchoolImpact:   SchoolImpact(req.Location, req.Units, cat.Schools, p),
		TrafficImpact:  TrafficImpact(req.Location, req.Units, cat.Intersections, p),
		TransitAccess:  TransitAccess(req.Location, cat.Stations, p),
		Infrastructure: InfrastructureImpact(req.Units, p),
		ShadowAnalysis: ShadowImpact(req.Footprint, req.Stories, p),
		EconomicImpact: EconomicImpact(req.Location, req.Units, req.Stories, p),
	}
	want.Bottlenecks = AggregateBottlenecks(want.Zoning, want.SchoolImpact, want.TrafficImpact, want.Infrastructure)

	assert.Equal(t, want, *got)
	assert.False(t, got.Zoning.Compliant)
	assert.Equal(t, model.BottleneckZoning, got.Bottlenecks[0].Type)
}

func TestAnalyze_Errors(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name   string
		mutate func(*model.BuildingRequest)
		kind   error
	}{
		{"invalid units", func(r *model.BuildingRequest) { r.Units = 0 }, model.ErrInvalidInput},
		{"unknown zone override", func(r *model.BuildingRequest) { r.Zone = "X-1" }, model.ErrInvalidInput},
		{"outside every zone", func(r *model.BuildingRequest) { r.Location = model.Location{Lat: 33.6, Lng: -84.6} }, model.ErrUnresolvedZone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := downtownRequest()
			tt.mutate(&req)
			_, err := a.Analyze(context.Background(), req)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestAnalyze_ZoneOverride(t *testing.T) {
	a := newTestAnalyzer(t)
	req := downtownRequest()
	req.Zone = "R-4"

	got, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "R-4", got.Zoning.Zone)
	assert.False(t, got.Zoning.Compliant)
	assert.Equal(t, []string{"Height 120ft exceeds maximum 35ft"}, got.Zoning.Violations)
	assert.Equal(t, "Zoning violations: Height 120ft exceeds maximum 35ft", got.Bottlenecks[0].Message)
}

func TestAnalyze_CanceledContext(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, downtownRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_DegenerateFootprint(t *testing.T) {
	a := newTestAnalyzer(t)
	req := downtownRequest()
	req.Footprint = [][]float64{{-84.388, 33.759}, {-84.387, 33.760}}

	got, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	for _, slot := range got.ShadowAnalysis.ShadowsByTime {
		assert.Zero(t, slot.ShadowAreaSqft)
	}
	assert.Zero(t, got.ShadowAnalysis.TotalAffectedParcels)
}

func TestParamsFromConfig(t *testing.T) {
	cfg := config.AnalysisConfig{
		StudentsPerUnit: 0.5,
		ElementaryShare: 0.5,
		MiddleShare:     0.25,
		HighShare:       0.25,
		SchoolRadiusM:   3000,
		TripsPerUnit:    6,
		AMPeakRatio:     0.1,
		PMPeakRatio:     0.1,
		TrafficRadiusM:  1000,
		TrafficDecayM:   250,
		WalkSpeedMPS:    1.2,
		WaterGPDPerUnit: 120,
		PropertyTaxRate: 0.02,
		FeetPerStory:    10,
	}
	p := ParamsFromConfig(cfg)
	assert.Equal(t, 0.5, p.StudentsPerUnit)
	assert.Equal(t, 250.0, p.TrafficDecayM)
	assert.Equal(t, 10, p.FeetPerStory)
	assert.NoError(t, p.Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"defaults", func(*Params) {}, ""},
		{"shares off", func(p *Params) { p.HighShare = 0.4 }, "grade shares must sum to 1"},
		{"zero walk speed", func(p *Params) { p.WalkSpeedMPS = 0 }, "walk_speed_mps must be positive"},
		{"zero decay", func(p *Params) { p.TrafficDecayM = 0 }, "traffic_decay_m must be positive"},
		{"negative radius", func(p *Params) { p.SchoolRadiusM = -1 }, "school_radius_m must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
