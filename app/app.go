package app

import (
	"context"
	"fmt"

	"github.com/kbukum/getscript/api"
	"github.com/kbukum/getscript/bootstrap"
	"github.com/kbukum/getscript/component"
	"github.com/kbukum/getscript/llm"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/media"
	"github.com/kbukum/getscript/observability"
	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/server"
	"github.com/kbukum/getscript/transcript"
	"github.com/kbukum/getscript/transcription"
	"github.com/kbukum/getscript/util"

	// Registered backends.
	_ "github.com/kbukum/getscript/llm/gemini"
	_ "github.com/kbukum/getscript/llm/ollama"
	_ "github.com/kbukum/getscript/llm/openai"
	_ "github.com/kbukum/getscript/transcription/deepgram"
	_ "github.com/kbukum/getscript/transcription/whisper"
)

// Service is the wired getscript service.
type Service struct {
	App      *bootstrap.App[*Config]
	Server   *server.Server
	Pipeline *transcript.Pipeline

	audio       *media.Acquirer
	transcriber transcript.Transcriber
	llm         llm.Provider
	llmBackend  llm.Provider
}

// New validates cfg, installs telemetry and wires every stage of the
// transcript pipeline behind the HTTP server. Missing credentials do not
// fail construction; they are logged and reported on each request.
func New(ctx context.Context, cfg *Config, opts ...bootstrap.Option) (*Service, error) {
	opts = append([]bootstrap.Option{bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout)}, opts...)
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log := a.Logger
	svc := &Service{App: a}

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry setup: %w", err)
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	credErr := cfg.CredentialsError()
	if credErr != nil {
		log.Error("credentials missing; transcript requests will fail", logger.Fields(logger.FieldError, credErr.Error()))
	}

	svc.audio = media.NewAcquirer(cfg.Media, nil, log)

	if credErr == nil {
		if err := svc.buildProviders(cfg, log); err != nil {
			return nil, err
		}
	}

	cleaner := transcript.NewCleaner(cfg.Cleanup, svc.llm, log, metrics)
	svc.Pipeline = transcript.NewPipeline(svc.audio, svc.transcriber, cleaner, metrics, log)
	handler := api.NewHandler(svc.Pipeline, credErr, metrics, log)

	// Stack traces reach clients only outside production.
	svc.Server = server.New(cfg.Server, cfg.Debug && !cfg.IsProduction(), log)
	svc.Server.RegisterDefaultEndpoints(cfg.Name, svc.health)
	api.RegisterRoutes(svc.Server.Engine(), handler)

	if err := a.RegisterComponent(&component.Func{
		ComponentName: "telemetry",
		StopFn:        shutdownTelemetry,
	}); err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(server.NewComponent(svc.Server)); err != nil {
		return nil, err
	}
	a.OnReady(func(ctx context.Context) error {
		if down := svc.health(ctx).Unhealthy(); len(down) > 0 {
			log.Warn("dependencies unavailable at startup", logger.Fields("components", down))
		}
		return nil
	})
	a.OnStop(func(context.Context) error {
		if c, ok := svc.llmBackend.(interface{ Close() }); ok {
			c.Close()
		}
		return nil
	})
	return svc, nil
}

func (s *Service) buildProviders(cfg *Config, log *logger.Logger) error {
	backend, err := transcription.Create(cfg.Transcription.Provider, cfg.transcriptionSettings())
	if err != nil {
		return fmt.Errorf("transcription provider %q: %w", cfg.Transcription.Provider, err)
	}
	s.transcriber = provider.Chain(
		provider.WithLogging[transcription.Request, *transcription.Response](log),
		provider.WithTracing[transcription.Request, *transcription.Response]("transcription"),
	)(transcription.AsRequestResponse(backend))

	if !cfg.Cleanup.AI {
		log.Info("providers ready", logger.Fields("transcription", backend.Name(), "llm", "disabled"))
		return nil
	}
	gen, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider %q: %w", cfg.LLM.Dialect, err)
	}
	s.llmBackend = gen
	log.Info("providers ready", logger.Fields(
		"transcription", backend.Name(),
		"llm", gen.Name(),
		"llm_api_key", util.MaskSecret(cfg.LLM.APIKey, 4),
	))
	s.llm = provider.Chain(
		provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log),
		provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("llm"),
		provider.Resilient[llm.CompletionRequest, llm.CompletionResponse](cfg.LLM.Resilience.Build(cfg.LLM.Name, nil)),
	)(gen)
	return nil
}

// health reports component health plus the availability of the external
// dependencies. An unavailable LLM degrades the service since the local
// cleanup tier still answers.
func (s *Service) health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(s.App.Name, s.App.Version)
	for _, h := range s.App.Components.HealthAll(ctx) {
		sh.AddComponent(h)
	}

	sh.AddComponent(availability("media", s.audio.Name(), s.audio.IsAvailable(ctx)))
	if s.transcriber != nil {
		sh.AddComponent(availability("transcription", s.transcriber.Name(), s.transcriber.IsAvailable(ctx)))
	} else {
		sh.AddComponent(observability.Health{Name: "transcription", Status: observability.HealthStatusDown, Message: "not configured"})
	}
	if s.llm != nil {
		sh.AddComponent(availability("llm", s.llm.Name(), s.llm.IsAvailable(ctx)))
	}
	return sh
}

func availability(name, backend string, ok bool) observability.Health {
	h := observability.Health{
		Name:    name,
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"provider": backend},
	}
	if !ok {
		h.Status = observability.HealthStatusDown
		h.Message = "unavailable"
	}
	return h
}

// Run starts the service and blocks until shutdown.
func (s *Service) Run(ctx context.Context) error {
	return s.App.Run(ctx)
}
