package report

import (
	"context"
	"net/http"
	"net/http/httptest"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type stubGenerator struct {
	report *model.Report
	err    error
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, _ Input) (*model.Report, error) {
	s.calls++
	return s.report, s.err
}

func apiError(status int) error {
	return &sdk.Error{
		StatusCode: status,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
		Response:   &http.Response{StatusCode: status},
	}
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:         "msg_1",
		Model:      "claude-sonnet-4-5-20250929",
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 900, OutputTokens: 400},
	}
}

func sampleInput() Input {
	maxHeight := 150
	maxFAR := 4.0
	return Input{
		Building: model.BuildingRequest{
			Location:      model.Location{Lat: 33.7590, Lng: -84.3880},
			Type:          model.BuildingResidential,
			Units:         1000,
			Stories:       8,
			ParkingSpaces: 500,
		},
		Analysis: &model.Analysis{
			Zoning: model.ZoningResult{
				Zone: "MR-3", Compliant: true, Violations: []string{},
				MaxHeight: &maxHeight, MaxFAR: &maxFAR,
			},
			SchoolImpact: model.SchoolImpact{
				StudentsGenerated: 300,
				Bottlenecks: []model.SchoolBottleneck{
					{School: "Grady High School", CapacityPct: 113.1, Severity: model.SeverityMedium},
				},
			},
			TrafficImpact: model.TrafficImpact{
				DailyTrips: 9570,
				PeakTrips:  model.PeakTrips{AM: 1052, PM: 1148},
				LOSImpacts: []model.IntersectionImpact{{Name: "Peachtree St & Ellis St"}},
			},
			TransitAccess: model.TransitAccess{
				NearestStation:  &model.StationDistance{Name: "Peachtree Center", Line: "Red/Gold", Distance: 82.6},
				WalkTimeMinutes: 1.0,
				TransitScore:    model.TransitExcellent,
			},
			Infrastructure: model.InfrastructureImpact{
				WaterDemand:            150000,
				UpgradesNeeded:         []string{"Water main upgrade required"},
				EstimatedCost:          500000,
				InfrastructureAdequate: false,
			},
			EconomicImpact: model.EconomicImpact{
				AnnualTaxRevenue:   4400000,
				InfrastructureCost: 15000000,
				YearsToBreakeven:   3.4,
				ConstructionJobs:   4000,
				PermanentJobs:      40,
			},
		},
	}
}

func cleanInput() Input {
	in := sampleInput()
	a := *in.Analysis
	a.SchoolImpact.Bottlenecks = nil
	a.TrafficImpact.LOSImpacts = nil
	a.Infrastructure.UpgradesNeeded = nil
	a.Infrastructure.EstimatedCost = 0
	a.Infrastructure.InfrastructureAdequate = true
	in.Analysis = &a
	in.Building.Units = 40
	return in
}
