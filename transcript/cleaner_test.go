package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/llm"
	"github.com/kbukum/getscript/provider"
)

func fakeLLM(fn func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error)) llm.Provider {
	return &provider.Func[llm.CompletionRequest, llm.CompletionResponse]{ProviderName: "fake", Fn: fn}
}

func replyWith(content string) llm.Provider {
	return fakeLLM(func(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
		return llm.CompletionResponse{Content: content}, nil
	})
}

func threeSegments() []RawSegment {
	return []RawSegment{
		{Start: 0, End: 3, Text: "um hello everyone"},
		{Start: 3, End: 6, Text: "so like welcome to the show"},
		{Start: 6, End: 9, Text: "you know it's great"},
	}
}

func aiConfig() CleanerConfig {
	return CleanerConfig{AI: true, Timeout: time.Second}
}

func TestCleanerAITier(t *testing.T) {
	raw := threeSegments()
	var gotReq llm.CompletionRequest
	p := fakeLLM(func(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		gotReq = req
		return llm.CompletionResponse{Content: "```json\n" +
			`[{"index":0,"cleanedText":"Hello everyone."},` +
			`{"index":1,"cleanedText":"Welcome to the show."},` +
			`{"index":2,"cleanedText":"It's great."}]` + "\n```"}, nil
	})

	out := NewCleaner(aiConfig(), p, nil, nil).Clean(context.Background(), raw)

	if out.Tier != TierAI || out.FallbackReason != "" {
		t.Fatalf("tier = %q reason = %q, want ai", out.Tier, out.FallbackReason)
	}
	if gotReq.SystemPrompt == "" || len(gotReq.Messages) != 1 {
		t.Fatalf("unexpected request %+v", gotReq)
	}
	if !strings.Contains(gotReq.Messages[0].Content, `"index":2`) {
		t.Errorf("payload missing segment index: %s", gotReq.Messages[0].Content)
	}
	want := []string{"Hello everyone.", "Welcome to the show.", "It's great."}
	for i, seg := range out.Segments {
		if seg.CleanedText != want[i] {
			t.Errorf("segment %d = %q, want %q", i, seg.CleanedText, want[i])
		}
		if seg.Start != raw[i].Start || seg.End != raw[i].End || seg.OriginalText != raw[i].Text {
			t.Errorf("segment %d not aligned with input: %+v", i, seg)
		}
	}
}

func TestCleanerIgnoresModelTimestamps(t *testing.T) {
	raw := threeSegments()
	p := replyWith(`[{"index":0,"start":99,"end":100,"cleanedText":"a"},{"index":1,"cleanedText":"b"},{"index":2,"cleanedText":"c"}]`)

	out := NewCleaner(aiConfig(), p, nil, nil).Clean(context.Background(), raw)
	if out.Tier != TierAI {
		t.Fatalf("tier = %q", out.Tier)
	}
	if out.Segments[0].Start != 0 || out.Segments[0].End != 3 {
		t.Errorf("timestamps taken from model output: %+v", out.Segments[0])
	}
}

func TestCleanerFallback(t *testing.T) {
	tests := []struct {
		name   string
		cfg    CleanerConfig
		llm    llm.Provider
		reason string
	}{
		{"disabled", CleanerConfig{AI: false}, replyWith("[]"), ReasonDisabled},
		{"no provider", aiConfig(), nil, ReasonDisabled},
		{"too many segments", CleanerConfig{AI: true, MaxAISegments: 2}, replyWith("[]"), ReasonTooMany},
		{"request error", aiConfig(), fakeLLM(func(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
			return llm.CompletionResponse{}, errors.New("boom")
		}), ReasonRequest},
		{"circuit open", aiConfig(), fakeLLM(func(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
			return llm.CompletionResponse{}, apperrors.ServiceUnavailable("llm")
		}), ReasonUnavailable},
		{"timeout", CleanerConfig{AI: true, Timeout: 10 * time.Millisecond}, fakeLLM(func(ctx context.Context, _ llm.CompletionRequest) (llm.CompletionResponse, error) {
			<-ctx.Done()
			return llm.CompletionResponse{}, ctx.Err()
		}), ReasonTimeout},
		{"client timeout", aiConfig(), fakeLLM(func(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
			return llm.CompletionResponse{}, httpclient.NewTimeoutError(errors.New("Client.Timeout exceeded while awaiting headers"))
		}), ReasonTimeout},
		{"malformed", aiConfig(), replyWith("Sorry, I can't help with that."), ReasonMalformed},
		{"empty", aiConfig(), replyWith(""), ReasonEmpty},
		{"count mismatch", aiConfig(), replyWith(`[{"cleanedText":"only one"}]`), ReasonCountMismatch},
		{"empty text", aiConfig(), replyWith(`[{"cleanedText":"a"},{"cleanedText":"  "},{"cleanedText":"c"}]`), ReasonEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := threeSegments()
			out := NewCleaner(tt.cfg, tt.llm, nil, nil).Clean(context.Background(), raw)

			if out.Tier != TierLocal {
				t.Fatalf("tier = %q, want local", out.Tier)
			}
			if out.FallbackReason != tt.reason {
				t.Errorf("reason = %q, want %q", out.FallbackReason, tt.reason)
			}
			if len(out.Segments) != len(raw) {
				t.Fatalf("segments = %d, want %d", len(out.Segments), len(raw))
			}
			for i, seg := range out.Segments {
				if want := CleanLocal(raw[i].Text); seg.CleanedText != want {
					t.Errorf("segment %d = %q, want %q", i, seg.CleanedText, want)
				}
			}
		})
	}
}

func TestCleanerEmptyInput(t *testing.T) {
	called := false
	p := fakeLLM(func(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
		called = true
		return llm.CompletionResponse{}, nil
	})
	out := NewCleaner(aiConfig(), p, nil, nil).Clean(context.Background(), nil)
	if called {
		t.Error("provider called for empty input")
	}
	if len(out.Segments) != 0 || out.Tier != TierLocal {
		t.Errorf("unexpected cleanup %+v", out)
	}
}
