package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/media"
	"github.com/kbukum/getscript/observability"
	"github.com/kbukum/getscript/transcript"
)

// Output formats accepted by the format query parameter.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Runner produces a transcript for a video URL. *transcript.Pipeline
// satisfies it.
type Runner interface {
	Run(ctx context.Context, videoURL string) (*transcript.Data, error)
}

// Handler serves the transcript endpoint.
type Handler struct {
	runner Runner
	// credErr is the startup credential check; while set every request
	// fails with a configuration error before any external call.
	credErr error
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewHandler creates the transcript handler. credErr is the result of the
// startup credential check and may be nil.
func NewHandler(runner Runner, credErr error, metrics *observability.Metrics, log *logger.Logger) *Handler {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		runner:  runner,
		credErr: credErr,
		metrics: metrics,
		log:     log.WithComponent("api"),
	}
}

// GetScript handles GET /getscript?url=<video_url>[&format=text].
func (h *Handler) GetScript(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := logger.RequestIDFromContext(ctx)

	videoURL, format, err := h.validate(c)
	if err != nil {
		h.fail(c, err, requestID)
		return
	}

	data, err := h.runner.Run(ctx, videoURL)
	if err != nil {
		h.fail(c, err, requestID)
		return
	}

	h.metrics.RecordRequest(ctx, "success")
	if format == FormatText {
		c.String(http.StatusOK, transcript.FormatText(data.CleanedSegments))
		return
	}
	c.JSON(http.StatusOK, transcript.Success(*data, requestID))
}

// validate checks the request in order: url present, url shape, output
// format, then credentials.
func (h *Handler) validate(c *gin.Context) (videoURL, format string, err error) {
	videoURL = strings.TrimSpace(c.Query("url"))
	if videoURL == "" {
		return "", "", apperrors.MissingField("url")
	}
	if err := media.ValidateYouTubeURL(videoURL); err != nil {
		return "", "", apperrors.InvalidInput("url", "not a YouTube video URL").WithCause(err)
	}

	format = strings.ToLower(c.DefaultQuery("format", FormatJSON))
	if format != FormatJSON && format != FormatText {
		return "", "", apperrors.InvalidInput("format", "format must be json or text")
	}

	if h.credErr != nil {
		return "", "", apperrors.From(h.credErr)
	}
	return videoURL, format, nil
}

func (h *Handler) fail(c *gin.Context, err error, requestID string) {
	appErr := apperrors.From(err)
	h.metrics.RecordRequest(c.Request.Context(), string(appErr.Code))

	fields := logger.Fields("code", string(appErr.Code), logger.FieldStatus, appErr.HTTPStatus)
	log := h.log.WithContext(c.Request.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error(appErr.Message, logger.MergeWithError(fields, err))
	} else {
		log.Warn(appErr.Message, fields)
	}

	c.JSON(appErr.HTTPStatus, transcript.Failure(appErr, requestID))
}
