package transcript

import "github.com/kbukum/getscript/transcription"

// RawSegment is one utterance as transcribed. Start <= End; segments are
// ordered by Start.
type RawSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// CleanedSegment is a RawSegment after cleanup. Timestamps are copied from
// the raw segment unchanged.
type CleanedSegment struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	CleanedText  string  `json:"cleanedText"`
	OriginalText string  `json:"originalText"`
}

// Tier names the cleanup strategy that produced a result.
type Tier string

const (
	TierAI    Tier = "ai"
	TierLocal Tier = "local"
)

// SegmentsFromUtterances converts transcription output into raw segments.
func SegmentsFromUtterances(utterances []transcription.Utterance) []RawSegment {
	segs := make([]RawSegment, len(utterances))
	for i, u := range utterances {
		segs[i] = RawSegment{Start: u.Start, End: u.End, Text: u.Text}
	}
	return segs
}
