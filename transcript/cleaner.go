package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/llm"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/observability"
	"github.com/kbukum/getscript/util"
)

// Fallback reasons recorded when the AI tier is abandoned.
const (
	ReasonDisabled      = "disabled"
	ReasonUnavailable   = "unavailable"
	ReasonRequest       = "request"
	ReasonTimeout       = "timeout"
	ReasonMalformed     = "malformed"
	ReasonEmpty         = "empty"
	ReasonCountMismatch = "count_mismatch"
	ReasonEmptyText     = "empty_text"
	ReasonTooMany       = "too_many_segments"
)

// CleanerConfig configures the AI cleanup tier.
type CleanerConfig struct {
	// AI enables the model rewrite. When false every request uses local cleanup.
	AI          bool          `yaml:"ai" mapstructure:"ai"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	// MaxAISegments skips the AI tier for longer transcripts; 0 means no limit.
	MaxAISegments int `yaml:"max_ai_segments" mapstructure:"max_ai_segments"`
}

// ApplyDefaults sets the generation ceiling.
func (c *CleanerConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 80 * time.Second
	}
}

// Cleanup is the output of one Clean call.
type Cleanup struct {
	Segments []CleanedSegment
	Tier     Tier
	// FallbackReason is set when the local tier ran instead of the AI tier.
	FallbackReason string
}

type cleanState int

const (
	stateAttemptAI cleanState = iota
	stateLocalFallback
	stateDone
)

// Cleaner turns raw segments into cleaned segments. It never fails: any
// problem with the AI tier switches the whole batch to local cleanup.
type Cleaner struct {
	cfg     CleanerConfig
	llm     llm.Provider
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewCleaner creates a Cleaner. A nil provider disables the AI tier.
func NewCleaner(cfg CleanerConfig, p llm.Provider, log *logger.Logger, metrics *observability.Metrics) *Cleaner {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	return &Cleaner{
		cfg:     cfg,
		llm:     p,
		log:     log.WithComponent("cleaner"),
		metrics: metrics,
	}
}

// Clean runs the two-tier cleanup over raw.
func (c *Cleaner) Clean(ctx context.Context, raw []RawSegment) Cleanup {
	var out Cleanup
	state := stateAttemptAI
	if reason := c.skipReason(raw); reason != "" {
		out.FallbackReason = reason
		state = stateLocalFallback
	}

	for state != stateDone {
		switch state {
		case stateAttemptAI:
			segs, reason, err := c.cleanAI(ctx, raw)
			if reason != "" {
				fields := logger.Fields(logger.FieldStage, "cleanup", "reason", reason, "segments", len(raw))
				if err != nil {
					fields = logger.MergeWithError(fields, err)
				}
				c.log.WithContext(ctx).Warn("ai cleanup failed, using local cleanup", fields)
				out.FallbackReason = reason
				state = stateLocalFallback
				continue
			}
			out.Segments, out.Tier = segs, TierAI
			state = stateDone
		case stateLocalFallback:
			out.Segments, out.Tier = CleanLocalSegments(raw), TierLocal
			state = stateDone
		}
	}

	c.metrics.RecordCleanupTier(ctx, string(out.Tier), out.FallbackReason)
	return out
}

func (c *Cleaner) skipReason(raw []RawSegment) string {
	switch {
	case !c.cfg.AI || c.llm == nil:
		return ReasonDisabled
	case len(raw) == 0:
		return ReasonEmpty
	case c.cfg.MaxAISegments > 0 && len(raw) > c.cfg.MaxAISegments:
		return ReasonTooMany
	default:
		return ""
	}
}

// cleanAI returns the cleaned batch, or the fallback reason and the error
// behind it.
func (c *Cleaner) cleanAI(ctx context.Context, raw []RawSegment) ([]CleanedSegment, string, error) {
	prompt, err := buildPrompt(raw)
	if err != nil {
		return nil, ReasonRequest, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		Temperature:  c.cfg.Temperature,
		MaxTokens:    c.cfg.MaxTokens,
	}
	resp, err := c.llm.Execute(ctx, req)
	if err != nil {
		return nil, requestFailureReason(err), err
	}

	outcome := ParseSegmentsJSON(resp.Content)
	switch outcome.Status {
	case ParseEmpty:
		return nil, ReasonEmpty, nil
	case ParseMalformed:
		return nil, ReasonMalformed, fmt.Errorf("%w: response %q", outcome.Err, util.Truncate(resp.Content, 200))
	}
	if len(outcome.Items) != len(raw) {
		return nil, ReasonCountMismatch, fmt.Errorf("got %d segments, want %d", len(outcome.Items), len(raw))
	}

	texts := orderedTexts(outcome.Items, len(raw))
	segs := make([]CleanedSegment, len(raw))
	for i, seg := range raw {
		if texts[i] == "" {
			return nil, ReasonEmptyText, fmt.Errorf("segment %d has no cleaned text", i)
		}
		segs[i] = CleanedSegment{
			Start:        seg.Start,
			End:          seg.End,
			CleanedText:  texts[i],
			OriginalText: seg.Text,
		}
	}
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, len(segs))
	return segs, "", nil
}

func requestFailureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || httpclient.IsTimeout(err) {
		return ReasonTimeout
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Code {
		case apperrors.ErrCodeTimeout:
			return ReasonTimeout
		case apperrors.ErrCodeServiceUnavailable:
			return ReasonUnavailable
		}
	}
	return ReasonRequest
}
