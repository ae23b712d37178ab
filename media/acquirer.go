package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/process"
	"github.com/kbukum/getscript/util"
)

// Audio is an acquired audio stream held in memory.
type Audio struct {
	Data []byte
	// MimeType is sniffed from the container header.
	MimeType string
}

// Size returns the audio size in bytes.
func (a *Audio) Size() int { return len(a.Data) }

// Runner executes a subprocess. *process.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, cmd process.Command) (*process.Result, error)
}

// Acquirer fetches audio with yt-dlp.
type Acquirer struct {
	cfg    Config
	runner Runner
	log    *logger.Logger
}

// NewAcquirer creates an acquirer. A nil runner uses a plain process.Runner.
func NewAcquirer(cfg Config, runner Runner, log *logger.Logger) *Acquirer {
	cfg.ApplyDefaults()
	if runner == nil {
		runner = process.NewRunner(process.Config{Name: cfg.Binary, GracePeriod: cfg.GracePeriod})
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Acquirer{cfg: cfg, runner: runner, log: log.WithComponent("media")}
}

// Name returns the extractor name.
func (a *Acquirer) Name() string { return a.cfg.Binary }

// IsAvailable reports whether the extractor binary is installed.
func (a *Acquirer) IsAvailable(context.Context) bool {
	_, err := process.LookPath(a.cfg.Binary)
	return err == nil
}

// Acquire downloads the best audio-only stream of videoURL into memory.
// It makes a single attempt bounded by the configured timeout; failures
// wrap ErrTimeout, ErrStream or ErrEmptyResult.
func (a *Acquirer) Acquire(ctx context.Context, videoURL string) (*Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	result, err := a.runner.Run(ctx, a.command(videoURL))
	if err != nil {
		return nil, a.classify(ctx, result, err)
	}
	if len(result.Stdout) == 0 {
		return nil, ErrEmptyResult
	}

	audio := &Audio{Data: result.Stdout, MimeType: sniffMimeType(result.Stdout)}
	a.log.WithContext(ctx).Debug("audio acquired", logger.Fields(
		"bytes", audio.Size(),
		"mime_type", audio.MimeType,
		logger.FieldDuration, result.Duration.Milliseconds(),
	))
	return audio, nil
}

func (a *Acquirer) command(videoURL string) process.Command {
	args := []string{"-f", a.cfg.Format, "-o", "-", "--no-playlist", "--quiet", "--no-warnings"}
	args = append(args, a.cfg.ExtraArgs...)
	args = append(args, "--", videoURL)
	return process.Command{
		Binary:      a.cfg.Binary,
		Args:        args,
		GracePeriod: a.cfg.GracePeriod,
		MaxStdout:   a.cfg.MaxBytesValue(),
	}
}

func (a *Acquirer) classify(ctx context.Context, result *process.Result, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrTimeout, a.cfg.Timeout)
	case errors.Is(err, process.ErrOutputLimit):
		return fmt.Errorf("%w: audio exceeds %s", ErrStream, a.cfg.MaxBytes)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrStream, err)
	}

	tail := result.StderrTail(3)
	if result == nil || (result.ExitCode < 0 && tail == "") {
		// Never started, e.g. binary missing.
		return fmt.Errorf("%w: %w", ErrStream, err)
	}
	if tail != "" {
		return fmt.Errorf("%w: %s exited with code %d: %s", ErrStream, a.cfg.Binary, result.ExitCode, util.Tail(tail, 500))
	}
	return fmt.Errorf("%w: %s exited with code %d", ErrStream, a.cfg.Binary, result.ExitCode)
}

// sniffMimeType maps the container signature to an audio MIME type.
func sniffMimeType(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	switch ct {
	case "video/webm":
		return "audio/webm"
	case "video/mp4":
		return "audio/mp4"
	case "application/ogg":
		return "audio/ogg"
	}
	if strings.HasPrefix(ct, "audio/") {
		return ct
	}
	return "application/octet-stream"
}
