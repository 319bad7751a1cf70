// Package report turns a finished impact analysis into a planning narrative.
//
// Two generators are provided: ClaudeGenerator asks the Anthropic Messages
// API for a written report, and TemplateGenerator renders a deterministic
// markdown report with no external calls. Narrate combines them.
package report

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/impact-cli/internal/model"
)

// Input is what a generator needs to describe one analysis.
type Input struct {
	Building model.BuildingRequest
	Analysis *model.Analysis
}

// Generator produces a narrative report. Implementations return their
// errors; choosing a fallback is the caller's decision.
type Generator interface {
	Generate(ctx context.Context, in Input) (*model.Report, error)
}

// Narrate tries primary and falls back to fallback when primary is nil or
// fails. The fallback is expected to be infallible in practice; if it also
// fails a minimal report carrying the error is returned.
func Narrate(ctx context.Context, primary, fallback Generator, in Input) *model.Report {
	if primary != nil {
		rep, err := primary.Generate(ctx, in)
		if err == nil {
			return rep
		}
		zap.L().Warn("report: primary generator failed, using fallback", zap.Error(err))
	}

	rep, err := fallback.Generate(ctx, in)
	if err != nil {
		zap.L().Error("report: fallback generator failed", zap.Error(err))
		return &model.Report{
			AISummary: "Report unavailable: " + err.Error(),
			Source:    model.ReportSourceTemplate,
			Timestamp: time.Now().UTC(),
		}
	}
	return rep
}

// printer formats numbers with US thousands separators.
func printer() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}
