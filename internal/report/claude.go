package report

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/pkg/anthropic"
)

const systemPrompt = "You are an expert city planner analyzing a proposed development. " +
	"Write concise, professional impact reports in markdown with bullet points."

// ClaudeConfig configures ClaudeGenerator.
type ClaudeConfig struct {
	Model             string
	MaxTokens         int64
	Timeout           time.Duration
	RequestsPerSecond float64
	Guard             GuardConfig
}

// ClaudeGenerator writes planning reports with the Anthropic Messages API.
type ClaudeGenerator struct {
	client  anthropic.Client
	cfg     ClaudeConfig
	limiter *rate.Limiter
	guard   *guard
	now     func() time.Time
}

// NewClaudeGenerator creates a generator backed by client.
func NewClaudeGenerator(client anthropic.Client, cfg ClaudeConfig) *ClaudeGenerator {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &ClaudeGenerator{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		guard:   newGuard(cfg.Guard),
		now:     time.Now,
	}
}

// BreakerState exposes the guard state for health reporting.
func (g *ClaudeGenerator) BreakerState() BreakerState {
	return g.guard.State()
}

// Generate implements Generator.
func (g *ClaudeGenerator) Generate(ctx context.Context, in Input) (*model.Report, error) {
	if in.Analysis == nil {
		return nil, eris.New("report: claude: nil analysis")
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	req := anthropic.MessageRequest{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: BuildPrompt(in)}},
	}

	resp, err := call(ctx, g.guard, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return g.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: claude")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, eris.New("report: claude: empty response")
	}

	resp.Usage.LogCost(g.cfg.Model, "report")
	zap.L().Debug("report: claude narrative generated",
		zap.String("stop_reason", resp.StopReason),
		zap.Int("chars", len(text)),
	)

	return &model.Report{
		AISummary: text,
		Source:    model.ReportSourceClaude,
		Timestamp: g.now().UTC(),
	}, nil
}
