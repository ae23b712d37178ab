package transcription

// Request carries the audio for one transcription call.
type Request struct {
	// Audio is the complete encoded audio stream.
	Audio []byte `json:"-"`
	// MimeType is the container type of Audio, e.g. "audio/webm".
	MimeType string `json:"mime_type,omitempty"`
	// Options override the backend's configured defaults.
	Options Options `json:"options"`
}

// Options are per-call overrides. Empty fields use the backend's config.
type Options struct {
	Language string `json:"language,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Response is the result of a transcription call.
type Response struct {
	// Provider names the backend that produced the result.
	Provider string `json:"provider"`
	// Text is the full transcript.
	Text string `json:"text"`
	// Utterances are the time-aligned speech segments, ordered by start.
	Utterances []Utterance `json:"utterances"`
	// Duration is the audio duration in seconds, when reported.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or requested language.
	Language string `json:"language,omitempty"`
	// RequestID is the upstream request identifier, when reported.
	RequestID string `json:"request_id,omitempty"`
}

// Utterance is one time-aligned segment of speech.
type Utterance struct {
	// Start is the start time in seconds.
	Start float64 `json:"start"`
	// End is the end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text.
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
	// Speaker is the diarized speaker label, if available.
	Speaker string `json:"speaker,omitempty"`
}
