// Package media acquires the audio track of a YouTube video.
//
// Acquisition shells out to yt-dlp, selecting the best audio-only stream
// and writing it to stdout, so the whole stream is held in memory and no
// temporary file is created.
package media
