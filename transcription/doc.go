// Package transcription defines the speech-to-text provider interface and
// the types shared by its backends.
//
// Backends register a factory by name from init and are created from a
// generic config map:
//
//	import _ "github.com/kbukum/getscript/transcription/deepgram"
//
//	p, err := transcription.Create("deepgram", map[string]any{"api_key": key})
//	resp, err := p.Transcribe(ctx, transcription.Request{Audio: audio, MimeType: "audio/webm"})
//
// # Backends
//
//   - transcription/deepgram: Deepgram prerecorded API (default)
//   - transcription/whisper: faster-whisper HTTP sidecar
package transcription
