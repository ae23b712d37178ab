package transcript

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/kbukum/getscript/errors"
)

// Data is the payload of a successful Result.
type Data struct {
	VideoURL        string           `json:"videoUrl"`
	CleanedSegments []CleanedSegment `json:"cleanedSegments"`
	TotalDuration   float64          `json:"totalDuration"`
	SegmentCount    int              `json:"segmentCount"`
	AudioSize       int64            `json:"audioSize,omitempty"`
	CleanupTier     Tier             `json:"cleanupTier,omitempty"`
}

// Result is the response body of GET /getscript.
type Result struct {
	Success   bool   `json:"success"`
	Data      *Data  `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Assemble builds the success payload. TotalDuration is the end of the last
// segment, or 0 when there are none.
func Assemble(videoURL string, segments []CleanedSegment, audioSize int64, tier Tier) Data {
	if segments == nil {
		segments = []CleanedSegment{}
	}
	var total float64
	if n := len(segments); n > 0 {
		total = segments[n-1].End
	}
	return Data{
		VideoURL:        videoURL,
		CleanedSegments: segments,
		TotalDuration:   total,
		SegmentCount:    len(segments),
		AudioSize:       audioSize,
		CleanupTier:     tier,
	}
}

// Success wraps data in a success Result.
func Success(data Data, requestID string) Result {
	return Result{Success: true, Data: &data, RequestID: requestID}
}

// Failure builds the failure Result for err. The message of an AppError is
// used verbatim; anything else reports as an internal error.
func Failure(err error, requestID string) Result {
	msg := "unknown error"
	if appErr := apperrors.From(err); appErr != nil {
		msg = appErr.Message
	}
	return Result{Success: false, Error: msg, RequestID: requestID}
}

// FormatText renders segments one per line as "[mm:ss - mm:ss] text".
// Timestamps switch to h:mm:ss from one hour on.
func FormatText(segments []CleanedSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "[%s - %s] %s\n", formatTimestamp(seg.Start), formatTimestamp(seg.End), seg.CleanedText)
	}
	return b.String()
}

func formatTimestamp(seconds float64) string {
	total := int(math.Floor(math.Max(seconds, 0)))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
