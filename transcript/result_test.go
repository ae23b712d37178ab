package transcript

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/kbukum/getscript/errors"
)

func TestAssemble(t *testing.T) {
	t.Run("three local segments", func(t *testing.T) {
		segs := CleanLocalSegments(threeSegments())
		data := Assemble("https://youtu.be/abc", segs, 1024, TierLocal)
		if data.SegmentCount != 3 {
			t.Errorf("segmentCount = %d, want 3", data.SegmentCount)
		}
		if data.TotalDuration != 9.0 {
			t.Errorf("totalDuration = %v, want 9.0", data.TotalDuration)
		}
		if data.AudioSize != 1024 || data.CleanupTier != TierLocal {
			t.Errorf("unexpected data %+v", data)
		}
	})

	t.Run("empty", func(t *testing.T) {
		data := Assemble("https://youtu.be/abc", nil, 0, TierLocal)
		if data.TotalDuration != 0 || data.SegmentCount != 0 {
			t.Errorf("unexpected data %+v", data)
		}
		b, err := json.Marshal(data)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), `"cleanedSegments":[]`) {
			t.Errorf("segments not encoded as empty array: %s", b)
		}
	})
}

func TestResultJSON(t *testing.T) {
	ok := Success(Assemble("https://youtu.be/abc", CleanLocalSegments(threeSegments()), 0, TierAI), "req-1")
	b, err := json.Marshal(ok)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"success":true`, `"videoUrl":"https://youtu.be/abc"`, `"cleanedText":"Hello everyone"`, `"originalText":"um hello everyone"`, `"cleanupTier":"ai"`, `"requestId":"req-1"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("missing %s in %s", want, b)
		}
	}
	if strings.Contains(string(b), "audioSize") || strings.Contains(string(b), `"error"`) {
		t.Errorf("unexpected fields in %s", b)
	}
}

func TestFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error message verbatim", apperrors.AcquisitionFailed("timeout", errors.New("audio download timed out")), "audio download timed out"},
		{"plain error", errors.New("secret detail"), "An unexpected error occurred."},
		{"nil", nil, "unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Failure(tt.err, "req-9")
			if r.Success || r.Data != nil {
				t.Errorf("unexpected result %+v", r)
			}
			if r.Error != tt.want || r.RequestID != "req-9" {
				t.Errorf("Failure = %+v, want error %q", r, tt.want)
			}
		})
	}
}

func TestFormatText(t *testing.T) {
	segs := []CleanedSegment{
		{Start: 0, End: 4.6, CleanedText: "Hello."},
		{Start: 65, End: 125.2, CleanedText: "Second."},
		{Start: 3599, End: 3725, CleanedText: "Late."},
	}
	want := "[00:00 - 00:04] Hello.\n" +
		"[01:05 - 02:05] Second.\n" +
		"[59:59 - 1:02:05] Late.\n"
	if got := FormatText(segs); got != want {
		t.Errorf("FormatText =\n%s\nwant\n%s", got, want)
	}
	if got := FormatText(nil); got != "" {
		t.Errorf("FormatText(nil) = %q", got)
	}
}
