package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/transcript"
)

type fakeRunner struct {
	data  *transcript.Data
	err   error
	calls int
	url   string
}

func (f *fakeRunner) Run(_ context.Context, videoURL string) (*transcript.Data, error) {
	f.calls++
	f.url = videoURL
	return f.data, f.err
}

func threeSegmentData() *transcript.Data {
	segs := []transcript.CleanedSegment{
		{Start: 0, End: 3, CleanedText: "Hello everyone", OriginalText: "um hello everyone"},
		{Start: 3, End: 6, CleanedText: "Welcome to the show", OriginalText: "so like welcome to the show"},
		{Start: 6, End: 9, CleanedText: "It's great", OriginalText: "you know it's great"},
	}
	data := transcript.Assemble("https://youtu.be/abc123", segs, 2048, transcript.TierLocal)
	return &data
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), "req-1"))
	})
	RegisterRoutes(r, h)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) transcript.Result {
	t.Helper()
	var res transcript.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("body is not JSON: %v (%s)", err, rr.Body.String())
	}
	return res
}

func TestGetScriptSuccess(t *testing.T) {
	runner := &fakeRunner{data: threeSegmentData()}
	r := newRouter(NewHandler(runner, nil, nil, nil))

	rr := get(r, "/getscript?url=https://youtu.be/abc123")

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rr.Code, rr.Body.String())
	}
	res := decode(t, rr)
	if !res.Success || res.Data == nil || res.RequestID != "req-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Data.SegmentCount != 3 || res.Data.TotalDuration != 9.0 {
		t.Errorf("segmentCount = %d totalDuration = %v", res.Data.SegmentCount, res.Data.TotalDuration)
	}
	if runner.url != "https://youtu.be/abc123" {
		t.Errorf("runner got url %q", runner.url)
	}
}

func TestGetScriptTextFormat(t *testing.T) {
	r := newRouter(NewHandler(&fakeRunner{data: threeSegmentData()}, nil, nil, nil))

	rr := get(r, "/getscript?url=https://youtu.be/abc123&format=text")

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "[00:00 - 00:03] Hello everyone\n") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestGetScriptValidation(t *testing.T) {
	credErr := apperrors.Configuration("DEEPGRAM_API_KEY is not set")
	tests := []struct {
		name    string
		target  string
		credErr error
		code    int
		message string
	}{
		{"missing url", "/getscript", nil, http.StatusBadRequest, "Missing required field: url"},
		{"blank url", "/getscript?url=%20", nil, http.StatusBadRequest, "Missing required field: url"},
		{"not youtube", "/getscript?url=not-a-youtube-link", nil, http.StatusBadRequest, "Invalid input: not a YouTube video URL"},
		{"other host", "/getscript?url=https://vimeo.com/12345", nil, http.StatusBadRequest, "Invalid input: not a YouTube video URL"},
		{"bad format", "/getscript?url=https://youtu.be/abc&format=xml", nil, http.StatusBadRequest, "Invalid input: format must be json or text"},
		{"url checked before credentials", "/getscript?url=nope", credErr, http.StatusBadRequest, "Invalid input: not a YouTube video URL"},
		{"missing credentials", "/getscript?url=https://youtu.be/abc", credErr, http.StatusInternalServerError, "DEEPGRAM_API_KEY is not set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{data: threeSegmentData()}
			r := newRouter(NewHandler(runner, tt.credErr, nil, nil))

			rr := get(r, tt.target)

			if rr.Code != tt.code {
				t.Fatalf("code = %d, want %d", rr.Code, tt.code)
			}
			res := decode(t, rr)
			if res.Success || res.Error != tt.message || res.RequestID != "req-1" {
				t.Errorf("result = %+v, want error %q", res, tt.message)
			}
			if runner.calls != 0 {
				t.Error("pipeline ran for a rejected request")
			}
		})
	}
}

func TestGetScriptPipelineErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"acquisition", apperrors.AcquisitionFailed("timeout", errors.New("audio download timed out")), "audio download timed out"},
		{"no utterances", apperrors.NoUtterances(), "no utterances were found in the transcription"},
		{"unexpected", errors.New("nil pointer somewhere"), "An unexpected error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewHandler(&fakeRunner{err: tt.err}, nil, nil, nil))

			rr := get(r, "/getscript?url=https://www.youtube.com/watch?v=abc123")

			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("code = %d, want 500", rr.Code)
			}
			if res := decode(t, rr); res.Error != tt.message || res.Data != nil {
				t.Errorf("result = %+v, want error %q", res, tt.message)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	r := newRouter(NewHandler(&fakeRunner{}, nil, nil, nil))

	rr := get(r, "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/getscript?url=") {
		t.Error("UI does not call the transcript endpoint")
	}
}
