package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Upstream availability.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the upstream rejected the call for quota reasons.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Request validation.
const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Pipeline errors
const (
	// ErrCodeConfiguration indicates a required credential or setting is absent.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeAcquisition indicates the audio could not be extracted from the video.
	ErrCodeAcquisition ErrorCode = "ACQUISITION_FAILED"
	// ErrCodeTranscription indicates the speech-to-text call failed.
	ErrCodeTranscription ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeNoUtterances indicates the transcript came back without any speech.
	ErrCodeNoUtterances ErrorCode = "NO_UTTERANCES"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
