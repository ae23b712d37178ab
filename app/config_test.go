package app

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/getscript/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("Name = %q, want %q", cfg.Name, ServiceName)
	}
	if cfg.Transcription.Provider != "deepgram" {
		t.Errorf("Transcription.Provider = %q", cfg.Transcription.Provider)
	}
	if cfg.LLM.Dialect != "gemini" {
		t.Errorf("LLM.Dialect = %q", cfg.LLM.Dialect)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Media.Binary != "yt-dlp" {
		t.Errorf("Media.Binary = %q", cfg.Media.Binary)
	}
	if cfg.Cleanup.Timeout != 80*time.Second {
		t.Errorf("Cleanup.Timeout = %v", cfg.Cleanup.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate after defaults: %v", err)
	}
}

func TestConfig_CredentialAliases(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		wantDeepgram string
		wantLLM      string
	}{
		{
			name:         "aliases fill empty sections",
			cfg:          Config{DeepgramAPIKey: "dg", GeminiAPIKey: "gm"},
			wantDeepgram: "dg",
			wantLLM:      "gm",
		},
		{
			name: "nested keys win",
			cfg: func() Config {
				c := Config{DeepgramAPIKey: "dg", GeminiAPIKey: "gm"}
				c.Transcription.Deepgram.APIKey = "nested-dg"
				c.LLM.APIKey = "nested-llm"
				return c
			}(),
			wantDeepgram: "nested-dg",
			wantLLM:      "nested-llm",
		},
		{
			name: "gemini alias ignored for other dialects",
			cfg: func() Config {
				c := Config{GeminiAPIKey: "gm"}
				c.LLM.Dialect = "openai"
				return c
			}(),
			wantLLM: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if cfg.Transcription.Deepgram.APIKey != tt.wantDeepgram {
				t.Errorf("deepgram key = %q, want %q", cfg.Transcription.Deepgram.APIKey, tt.wantDeepgram)
			}
			if cfg.LLM.APIKey != tt.wantLLM {
				t.Errorf("llm key = %q, want %q", cfg.LLM.APIKey, tt.wantLLM)
			}
		})
	}
}

func TestConfig_CredentialsError(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "all present",
			mutate: func(c *Config) { c.DeepgramAPIKey = "dg"; c.GeminiAPIKey = "gm"; c.Cleanup.AI = true },
		},
		{
			name:    "deepgram missing",
			mutate:  func(c *Config) { c.GeminiAPIKey = "gm"; c.Cleanup.AI = true },
			wantErr: "DEEPGRAM_API_KEY is not configured",
		},
		{
			name:    "llm missing with ai cleanup",
			mutate:  func(c *Config) { c.DeepgramAPIKey = "dg"; c.Cleanup.AI = true },
			wantErr: "LLM_API_KEY is not configured",
		},
		{
			name:   "llm key not needed without ai cleanup",
			mutate: func(c *Config) { c.DeepgramAPIKey = "dg" },
		},
		{
			name: "ollama needs no key",
			mutate: func(c *Config) {
				c.DeepgramAPIKey = "dg"
				c.Cleanup.AI = true
				c.LLM.Dialect = "ollama"
			},
		},
		{
			name:   "whisper needs no deepgram key",
			mutate: func(c *Config) { c.Transcription.Provider = "whisper" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			cfg.ApplyDefaults()

			err := cfg.CredentialsError()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("error %v is not an AppError", err)
			}
			if appErr.Code != apperrors.ErrCodeConfiguration || appErr.HTTPStatus != 500 {
				t.Errorf("code/status = %s/%d", appErr.Code, appErr.HTTPStatus)
			}
			if appErr.Message != tt.wantErr {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown transcription provider", func(c *Config) { c.Transcription.Provider = "vosk" }},
		{"sample rate above one", func(c *Config) { c.Observability.SampleRate = 2 }},
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfig_TranscriptionSettings(t *testing.T) {
	cfg := &Config{DeepgramAPIKey: "dg"}
	cfg.Transcription.Deepgram.UttSplit = 0.8
	cfg.ApplyDefaults()

	m := cfg.transcriptionSettings()
	if m["api_key"] != "dg" {
		t.Errorf("api_key = %v", m["api_key"])
	}
	if v, ok := m["utt_split"].(float64); !ok || v != 0.8 {
		t.Errorf("utt_split = %#v", m["utt_split"])
	}

	cfg.Transcription.Provider = "whisper"
	cfg.Transcription.Whisper.URL = "http://sidecar:8387"
	m = cfg.transcriptionSettings()
	if m["url"] != "http://sidecar:8387" {
		t.Errorf("url = %v", m["url"])
	}
	if _, ok := m["api_key"]; ok {
		t.Error("whisper settings should not carry an api key")
	}
}

func TestConfig_ValidateListsRegisteredBackends(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Transcription.Provider = "vosk"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"deepgram", "whisper", "vosk"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
