package media

import "errors"

var (
	// ErrInvalidURL reports a URL that is not a recognizable YouTube video link.
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrTimeout reports that acquisition exceeded its time ceiling.
	ErrTimeout = errors.New("audio download timed out")
	// ErrStream reports that the extractor could not start, exited non-zero,
	// or produced more data than allowed.
	ErrStream = errors.New("audio download failed")
	// ErrEmptyResult reports a clean exit with no audio bytes.
	ErrEmptyResult = errors.New("audio download returned no data")
)

// Failure reasons reported by Reason.
const (
	ReasonTimeout = "timeout"
	ReasonStream  = "stream"
	ReasonEmpty   = "empty"
)

// Reason classifies an acquisition error for error details and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, ErrEmptyResult):
		return ReasonEmpty
	default:
		return ReasonStream
	}
}
