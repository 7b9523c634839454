package llm

import (
	"context"
	"encoding/json"
)

type credentialOverrideKey struct{}

// CredentialOverride carries a per-call credential through the context,
// taking precedence over the credential the adapter was constructed with.
// It is never deserialized from caller-supplied JSON and masks itself when
// logged or marshaled.
type CredentialOverride struct {
	APIKey   string
	Endpoint string
}

func (c CredentialOverride) String() string {
	if c.APIKey == "" && c.Endpoint == "" {
		return "CredentialOverride{}"
	}
	return "CredentialOverride{APIKey:***, Endpoint:***}"
}

func (c CredentialOverride) MarshalJSON() ([]byte, error) {
	type masked struct {
		APIKey   string `json:"api_key,omitempty"`
		Endpoint string `json:"endpoint,omitempty"`
	}
	out := masked{}
	if c.APIKey != "" {
		out.APIKey = "***"
	}
	if c.Endpoint != "" {
		out.Endpoint = "***"
	}
	return json.Marshal(out)
}

// WithCredentialOverride stores a credential override in ctx. An empty
// override leaves ctx unchanged.
func WithCredentialOverride(ctx context.Context, c CredentialOverride) context.Context {
	if c.APIKey == "" && c.Endpoint == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialOverrideKey{}, c)
}

// CredentialOverrideFromContext reads a credential override from ctx.
func CredentialOverrideFromContext(ctx context.Context) (CredentialOverride, bool) {
	v := ctx.Value(credentialOverrideKey{})
	if v == nil {
		return CredentialOverride{}, false
	}
	c, ok := v.(CredentialOverride)
	return c, ok
}
