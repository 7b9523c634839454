package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproxTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},              // 1 * 1.3 truncates to 1
		{"ten words", "a b c d e f g h i j", 13}, // 10 * 1.3
		{"whitespace only", "   \t\n  ", 0},
		{"extra spacing", "one   two\n\nthree", 3}, // 3 * 1.3 truncates to 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApproxTokens(tt.text))
		})
	}
}

func TestCounterForModelKnownEncoding(t *testing.T) {
	counter := CounterForModel("gpt-4o")
	// Exact token counts depend on the BPE vocabulary; a short sentence is
	// at least one token and far fewer than its byte length.
	n := counter.Count("The quick brown fox jumps over the lazy dog")
	assert.Greater(t, n, 0)
	assert.Less(t, n, 44)
}

func TestCounterForModelFallsBackToHeuristic(t *testing.T) {
	counter := CounterForModel("totally-unknown-model-xyz")
	text := "one two three four"
	assert.Equal(t, ApproxTokens(text), counter.Count(text))
}
