package keys

import (
	"fmt"
	"strings"

	"github.com/meddiag/llmadapter/config"
)

// MaskKey renders an API key safe for display, keeping only the first and
// last four characters.
func MaskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// ValidateKeyFormat performs the cheap prefix check for a provider's key
// before any network use. Gemini keys without the AIza prefix are accepted
// when long enough (service-account style tokens).
func ValidateKeyFormat(provider, apiKey string) error {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	spec, ok := config.Spec(provider)
	if !ok || spec.KeyPrefix == "" {
		return nil
	}
	if provider == "gemini" && len(key) > 20 {
		return nil
	}
	if !strings.HasPrefix(key, spec.KeyPrefix) {
		return fmt.Errorf("invalid %s key format: expected prefix %q", spec.DisplayName, spec.KeyPrefix)
	}
	return nil
}
