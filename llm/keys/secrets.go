package keys

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadSecretsFile parses a mounted TOML secrets file into a flat
// name -> value map. Keys use the same variable names as the environment
// tier (OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, ...); non-string values are
// ignored.
func LoadSecretsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out[k] = s
		}
	}
	return out, nil
}
