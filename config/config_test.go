package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got %+v", cfg.Logging)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Media         struct {
		Timeout time.Duration `mapstructure:"timeout"`
		Binary  string        `mapstructure:"binary"`
	} `mapstructure:"media"`
	Deepgram struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"deepgram"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: getscript
environment: staging
media:
  timeout: 90s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	err := LoadConfig("getscript", &cfg,
		WithConfigFile(configPath),
		WithEnvFile(filepath.Join(dir, "missing.env")),
		WithDefaults(map[string]any{"media.binary": "yt-dlp"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "getscript" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Media.Timeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.Media.Timeout)
	}
	if cfg.Media.Binary != "yt-dlp" {
		t.Errorf("expected default binary, got %q", cfg.Media.Binary)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-secret")
	t.Setenv("MEDIA_BINARY", "/opt/yt-dlp")

	var cfg testConfig
	err := LoadConfig("getscript", &cfg,
		WithConfigFile("/nonexistent/config.yml"),
		WithEnvFile("/nonexistent/.env"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Deepgram.APIKey != "dg-secret" {
		t.Errorf("expected env api key, got %q", cfg.Deepgram.APIKey)
	}
	if cfg.Media.Binary != "/opt/yt-dlp" {
		t.Errorf("expected env binary, got %q", cfg.Media.Binary)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := LoadConfig("getscript", &cfg, WithConfigFile(configPath)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverFindsServiceFiles(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/getscript/config.yml": true,
		"./.env":                     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("getscript", LoaderConfig{})
	if files.ConfigFile != "./cmd/getscript/config.yml" {
		t.Errorf("config file = %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("env file = %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("getscript", LoaderConfig{ConfigFile: "/etc/a.yml", EnvFile: "/etc/.env"})
	if files.ConfigFile != "/etc/a.yml" || files.EnvFile != "/etc/.env" {
		t.Errorf("unexpected files %+v", files)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("DEEPGRAM_API_KEY")
	for _, want := range []string{"deepgram_api_key", "deepgram.api.key", "deepgram.api_key"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if single := generateEnvKeyVariants("DEBUG"); len(single) != 1 || single[0] != "debug" {
		t.Errorf("unexpected variants for single word: %v", single)
	}
}
