package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/getscript/logger"
)

// FileSystem is the slice of the OS the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv sets variables from a dotenv file without overriding existing ones.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the config.yml and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files LoadConfig reads; empty means none found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths from opts and searches the usual
// locations, relative to the working directory, for the rest.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// cmdDirs are the cmd/<service> directories seen from the repo root and
// from up to two levels below it (tests run inside package directories).
func cmdDirs(serviceName string) []string {
	return []string{
		"./cmd/" + serviceName,
		"../cmd/" + serviceName,
		"../../cmd/" + serviceName,
	}
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, dir := range cmdDirs(serviceName) {
		paths = append(paths, dir+"/config.yml")
	}
	return append(paths, "./config/config.yml", "./config.yml")
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range cmdDirs(serviceName)[:2] {
			paths = append(paths, dir+"/"+name)
		}
		paths = append(paths, "./"+name, "../"+name, "../../"+name)
	}
	return paths
}

// LoaderConfig carries LoadConfig's options.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// Defaults are viper defaults keyed by dotted path, e.g. "cleanup.ai".
	Defaults map[string]any
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithConfigFile skips the search for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search for the .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefaults registers values that apply when neither the file nor the
// environment sets the key.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) { lc.Defaults = defaults }
}

// LoadConfig fills cfg for serviceName. Later sources win: defaults,
// config.yml, the .env file, then the process environment.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)

	v := viper.New()
	for key, val := range lc.Defaults {
		v.SetDefault(key, val)
	}
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", filepath.Clean(files.ConfigFile), err)
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("env file ignored", logger.MergeWithError(logger.Fields("path", files.EnvFile), err))
		}
	}
	bindEnviron(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// bindEnviron sets every non-empty environment variable under each dotted
// key it could stand for, so LLM_API_KEY reaches llm.api_key.
func bindEnviron(v *viper.Viper) {
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		if value == "" {
			continue
		}
		for _, key := range generateEnvKeyVariants(name) {
			v.Set(key, value)
		}
	}
}

// generateEnvKeyVariants lists the config keys an environment variable may
// address, splitting at every underscore:
//
//	DEEPGRAM_API_KEY -> deepgram_api_key, deepgram.api.key, deepgram.api_key, deepgram_api.key
func generateEnvKeyVariants(envKey string) []string {
	key := strings.ToLower(envKey)
	parts := strings.Split(key, "_")
	variants := []string{key}
	if len(parts) == 1 {
		return variants
	}
	seen := map[string]bool{key: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}
	add(strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		tail := strings.Join(parts[i:], "_")
		add(strings.Join(parts[:i], ".") + "." + tail)
		add(strings.Join(parts[:i], "_") + "." + tail)
	}
	return variants
}
