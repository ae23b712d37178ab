package media

import (
	"fmt"
	"regexp"
	"strings"
)

var youtubeURL = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/(watch\?v=|embed/)|youtu\.be/)[A-Za-z0-9_-]+`)

// ValidateYouTubeURL checks that raw has the shape of a YouTube video URL:
// youtube.com/watch?v=<id>, youtube.com/embed/<id> or youtu.be/<id>,
// with optional scheme and "www." prefix.
func ValidateYouTubeURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if !youtubeURL.MatchString(raw) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}
