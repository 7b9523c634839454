// Package factory constructs adapters by provider id. A Registry maps ids
// to constructors; the default registry carries every built-in vendor, and
// callers add custom OpenAI-compatible endpoints at runtime.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/keys"
)

// Constructor builds an adapter from a resolved credential.
type Constructor func(cred keys.Credential, logger *zap.Logger) (llm.Adapter, error)

// Registry maps provider ids to constructors. Safe for concurrent use;
// registering an id twice overwrites, so the latest constructor wins.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	logger       *zap.Logger
}

// NewRegistry returns an empty registry. Most callers want Default instead.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		constructors: make(map[string]Constructor),
		logger:       logger,
	}
}

// Register binds an id to a constructor, replacing any previous binding.
func (r *Registry) Register(id string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[id] = c
}

// Create builds the adapter registered under id.
func (r *Registry) Create(id string, cred keys.Credential) (llm.Adapter, error) {
	r.mu.RLock()
	c, ok := r.constructors[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &llm.Error{
			Code:     llm.ErrUnknownProvider,
			Message:  fmt.Sprintf("provider %q is not registered", id),
			Provider: id,
		}
	}
	return c(cred, r.logger.With(zap.String("provider", id)))
}

// CreateFromResolver resolves the provider's credential and builds the
// adapter with it. An unresolvable credential is an authentication error,
// not an unknown provider.
func (r *Registry) CreateFromResolver(id string, resolver *keys.Resolver) (llm.Adapter, error) {
	cred, src := resolver.Resolve(id)
	if src == keys.SourceNotSet {
		return nil, &llm.Error{
			Code:     llm.ErrAuthentication,
			Message:  fmt.Sprintf("no credential configured for provider %q", id),
			Provider: id,
		}
	}
	return r.Create(id, cred)
}

// List returns the registered ids sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.constructors))
	for id := range r.constructors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
