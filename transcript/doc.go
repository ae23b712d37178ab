// Package transcript turns a YouTube URL into a cleaned, timestamped
// transcript.
//
// [Pipeline] runs four sequential stages: audio acquisition,
// transcription, cleanup and assembly. Cleanup is the only stage with a
// decision. [Cleaner] first tries one batched rewrite through a text
// generation provider and, on any failure, falls back to the deterministic
// [CleanLocal]. Cleanup never fails a request.
package transcript
