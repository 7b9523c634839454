// Package keys resolves provider credentials from a fixed hierarchy of
// sources: values set on the session, a mounted secrets file, then process
// environment variables. The first tier that fully satisfies the provider
// wins; a two-part credential (Azure key + endpoint) must come entirely
// from one tier.
package keys

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/config"
)

// Source identifies the tier a credential was resolved from.
type Source string

const (
	SourceSession Source = "session"
	SourceSecrets Source = "secrets"
	SourceEnv     Source = "environment"
	SourceNotSet  Source = "not_set"
)

// Credential is a resolved secret. Endpoint is populated only for providers
// that need one (Azure).
type Credential struct {
	APIKey   string
	Endpoint string
}

// Resolver holds session-scoped credential state. Create one per session
// and discard it with the session; it shares nothing with other resolvers.
type Resolver struct {
	mu      sync.RWMutex
	session map[string]Credential
	secrets map[string]string
	logger  *zap.Logger

	// lookupEnv is swappable for tests; defaults to os.LookupEnv.
	lookupEnv func(string) (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSecrets seeds the secrets tier from an already-loaded map keyed by
// the catalog variable names (OPENAI_API_KEY, ...).
func WithSecrets(secrets map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range secrets {
			r.secrets[k] = v
		}
	}
}

// WithSecretsFile loads the secrets tier from a mounted TOML file. A missing
// file is not an error; the tier is simply empty.
func WithSecretsFile(path string) Option {
	return func(r *Resolver) {
		if path == "" {
			return
		}
		m, err := LoadSecretsFile(path)
		if err != nil {
			r.logger.Warn("secrets file not loaded", zap.String("path", path), zap.Error(err))
			return
		}
		for k, v := range m {
			r.secrets[k] = v
		}
	}
}

// WithEnvLookup overrides the environment tier lookup. Test hook.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// NewResolver creates an empty Resolver.
func NewResolver(logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		session:   make(map[string]Credential),
		secrets:   make(map[string]string),
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set stores a session-tier credential for a provider. Blank keys are
// ignored so a cleared UI field does not shadow lower tiers.
func (r *Resolver) Set(provider, apiKey, endpoint string) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session[provider] = Credential{APIKey: apiKey, Endpoint: strings.TrimSpace(endpoint)}
}

// Clear removes a provider's session-tier credential.
func (r *Resolver) Clear(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.session, provider)
}

// Resolve returns the credential for a provider and the tier it came from,
// or (zero, SourceNotSet) when no tier satisfies it. Resolution order is
// fixed: session, then secrets, then environment. For providers requiring
// an endpoint, both parts must come from the same tier.
func (r *Resolver) Resolve(provider string) (Credential, Source) {
	spec, known := config.Spec(provider)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.session[provider]; ok && c.APIKey != "" {
		if !known || !spec.RequiresEndpoint || c.Endpoint != "" {
			return c, SourceSession
		}
	}

	// Custom providers live only in session state; without a catalog entry
	// there are no variable names to consult.
	if !known {
		return Credential{}, SourceNotSet
	}

	if key := r.secrets[spec.EnvKey]; key != "" {
		if !spec.RequiresEndpoint {
			return Credential{APIKey: key}, SourceSecrets
		}
		if ep := r.secrets[spec.EnvEndpoint]; ep != "" {
			return Credential{APIKey: key, Endpoint: ep}, SourceSecrets
		}
	}

	if key, ok := r.lookupEnv(spec.EnvKey); ok && key != "" {
		if !spec.RequiresEndpoint {
			return Credential{APIKey: key}, SourceEnv
		}
		if ep, ok := r.lookupEnv(spec.EnvEndpoint); ok && ep != "" {
			return Credential{APIKey: key, Endpoint: ep}, SourceEnv
		}
	}

	return Credential{}, SourceNotSet
}

// Configured returns every provider that currently resolves, mapped to its
// masked key and source. Catalog providers come first in catalog order,
// then custom session entries sorted by id.
func (r *Resolver) Configured() map[string]ConfiguredCredential {
	out := make(map[string]ConfiguredCredential)
	for _, spec := range config.Providers() {
		if c, src := r.Resolve(spec.ID); src != SourceNotSet {
			out[spec.ID] = ConfiguredCredential{MaskedKey: MaskKey(c.APIKey), Source: src}
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.session {
		if _, known := config.Spec(id); known {
			continue
		}
		out[id] = ConfiguredCredential{MaskedKey: MaskKey(c.APIKey), Source: SourceSession}
	}
	return out
}

// ConfiguredCredential is the displayable summary of a resolved credential.
type ConfiguredCredential struct {
	MaskedKey string
	Source    Source
}

// DefaultProvider picks the provider to use when the caller expresses no
// choice: preferred if it resolves, else the first configured catalog
// provider, else "gemini".
func (r *Resolver) DefaultProvider(preferred string) string {
	if preferred != "" {
		if _, src := r.Resolve(preferred); src != SourceNotSet {
			return preferred
		}
	}
	for _, spec := range config.Providers() {
		if _, src := r.Resolve(spec.ID); src != SourceNotSet {
			return spec.ID
		}
	}
	return "gemini"
}

// ExportEnv renders the session-tier credentials in .env format so a user
// can persist interactively entered keys. Lower tiers are already durable
// and are not exported.
func (r *Resolver) ExportEnv() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := []string{
		"# LLM provider API keys",
		"",
	}
	ids := make([]string, 0, len(r.session))
	for id := range r.session {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := r.session[id]
		spec, known := config.Spec(id)
		if !known {
			lines = append(lines, fmt.Sprintf("%s_API_KEY=%s", strings.ToUpper(id), c.APIKey))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%s", spec.EnvKey, c.APIKey))
		if spec.RequiresEndpoint && c.Endpoint != "" {
			lines = append(lines, fmt.Sprintf("%s=%s", spec.EnvEndpoint, c.Endpoint))
		}
	}
	return strings.Join(lines, "\n")
}
