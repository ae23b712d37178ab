package transcript

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/media"
	"github.com/kbukum/getscript/observability"
	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/transcription"
)

// Stage names used in logs, spans and metrics.
const (
	StageAcquire    = "acquire"
	StageTranscribe = "transcribe"
	StageCleanup    = "cleanup"
	StageAssemble   = "assemble"
)

// AudioSource fetches the audio of a video. *media.Acquirer satisfies it.
type AudioSource interface {
	Acquire(ctx context.Context, videoURL string) (*media.Audio, error)
}

// Transcriber is a transcription backend, usually wrapped with provider
// middleware.
type Transcriber = provider.RequestResponse[transcription.Request, *transcription.Response]

// Pipeline runs acquisition, transcription, cleanup and assembly in order.
type Pipeline struct {
	audio       AudioSource
	transcriber Transcriber
	cleaner     *Cleaner
	metrics     *observability.Metrics
	log         *logger.Logger
}

// NewPipeline wires the stages together.
func NewPipeline(audio AudioSource, transcriber Transcriber, cleaner *Cleaner, metrics *observability.Metrics, log *logger.Logger) *Pipeline {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		audio:       audio,
		transcriber: transcriber,
		cleaner:     cleaner,
		metrics:     metrics,
		log:         log.WithComponent("pipeline"),
	}
}

// Run produces the cleaned transcript of videoURL. Errors are AppErrors
// from the acquisition or transcription stage; cleanup never fails.
func (p *Pipeline) Run(ctx context.Context, videoURL string) (*Data, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPipeline)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrVideoURL, videoURL)
	if id := logger.RequestIDFromContext(ctx); id != "" {
		observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
	}

	log := p.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldVideoURL, videoURL))
	start := time.Now()

	audio, err := p.acquire(ctx, videoURL)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Error("audio acquisition failed", logger.ErrorFields(StageAcquire, err))
		return nil, err
	}

	resp, err := p.transcribe(ctx, audio)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Error("transcription failed", logger.ErrorFields(StageTranscribe, err))
		return nil, err
	}
	raw := SegmentsFromUtterances(resp.Utterances)

	cleanup := p.clean(ctx, raw)

	stageCtx, stageSpan := startStage(ctx, StageAssemble)
	assembleStart := time.Now()
	data := Assemble(videoURL, cleanup.Segments, int64(audio.Size()), cleanup.Tier)
	p.metrics.RecordStage(stageCtx, StageAssemble, time.Since(assembleStart), nil)
	stageSpan.End()

	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, data.SegmentCount)
	log.Info("transcript ready", logger.Fields(
		"segments", data.SegmentCount,
		"total_duration", data.TotalDuration,
		"cleanup_tier", string(data.CleanupTier),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return &data, nil
}

func (p *Pipeline) acquire(ctx context.Context, videoURL string) (*media.Audio, error) {
	ctx, span := startStage(ctx, StageAcquire)
	defer span.End()

	start := time.Now()
	audio, err := p.audio.Acquire(ctx, videoURL)
	p.metrics.RecordStage(ctx, StageAcquire, time.Since(start), err)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, apperrors.AcquisitionFailed(media.Reason(err), err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, audio.Size())
	return audio, nil
}

func (p *Pipeline) transcribe(ctx context.Context, audio *media.Audio) (*transcription.Response, error) {
	ctx, span := startStage(ctx, StageTranscribe)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrProvider, p.transcriber.Name())

	start := time.Now()
	resp, err := p.transcriber.Execute(ctx, transcription.Request{Audio: audio.Data, MimeType: audio.MimeType})
	if err == nil && (resp == nil || len(resp.Utterances) == 0) {
		err = transcription.ErrNoUtterances
	}
	p.metrics.RecordStage(ctx, StageTranscribe, time.Since(start), err)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if errors.Is(err, transcription.ErrNoUtterances) {
			return nil, apperrors.NoUtterances().WithCause(err)
		}
		return nil, apperrors.TranscriptionFailed(p.transcriber.Name(), err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, len(resp.Utterances))
	return resp, nil
}

func (p *Pipeline) clean(ctx context.Context, raw []RawSegment) Cleanup {
	ctx, span := startStage(ctx, StageCleanup)
	defer span.End()

	start := time.Now()
	cleanup := p.cleaner.Clean(ctx, raw)
	p.metrics.RecordStage(ctx, StageCleanup, time.Since(start), nil)
	observability.SetSpanAttribute(ctx, observability.AttrCleanupTier, string(cleanup.Tier))
	return cleanup
}

// startStage opens the span of one pipeline stage.
func startStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	ctx, span := observability.StartSpan(ctx, "getscript."+stage)
	observability.SetSpanAttribute(ctx, observability.AttrStage, stage)
	return ctx, span
}
