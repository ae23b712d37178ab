package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/getscript/httpclient"
)

// Defaults are the values a dialect falls back to when Config leaves them empty.
type Defaults struct {
	BaseURL string
	Model   string
}

// Dialect maps CompletionRequest/CompletionResponse to and from one
// provider's HTTP wire format. Dialects live in subpackages and register
// themselves from init:
//
//	func init() { llm.RegisterDialect("ollama", Dialect{}) }
type Dialect interface {
	// Name returns the dialect identifier.
	Name() string

	// Defaults returns the base URL and model used when Config leaves them empty.
	Defaults() Defaults

	// ChatPath returns the generation endpoint for model.
	ChatPath(model string) string

	// HealthPath returns the health-check path. Empty means none.
	HealthPath() string

	// Auth builds request authentication from the API key. May return nil.
	Auth(apiKey string) *httpclient.AuthConfig

	// BuildRequest maps req to the provider's JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the provider's JSON response body.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

// Factory builds a Provider that does not go through the REST Adapter,
// such as one backed by a vendor SDK.
type Factory func(cfg Config) (Provider, error)

var (
	registryMu sync.RWMutex
	dialects   = map[string]Dialect{}
	factories  = map[string]Factory{}
)

// RegisterDialect adds a REST dialect under name.
func RegisterDialect(name string, d Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	dialects[name] = d
}

// RegisterFactory adds an SDK-backed provider factory under name.
// A factory takes precedence over a dialect with the same name.
func RegisterFactory(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// GetDialect looks up a registered dialect.
func GetDialect(name string) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

func getFactory(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Dialects returns the sorted names of every registered dialect and factory.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	seen := make(map[string]bool, len(dialects)+len(factories))
	for name := range dialects {
		seen[name] = true
	}
	for name := range factories {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
