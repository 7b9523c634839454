package llm

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// wordTokenRatio is the documented approximation used when a vendor reports
// no token counts: tokens ~= words * 1.3. It is an explicit heuristic, not
// precise accounting; costs derived from it are estimates.
const wordTokenRatio = 1.3

// ApproxTokens estimates the token count of text as word count x 1.3.
func ApproxTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(float64(len(strings.Fields(text))) * wordTokenRatio)
}

// TokenCounter counts tokens for one model.
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

type approxCounter struct{}

func (approxCounter) Count(text string) int { return ApproxTokens(text) }

// CounterForModel returns an exact tiktoken-based counter when the model has
// a known encoding, and the word-count heuristic otherwise. Adapters use it
// to fill in token counts for vendors that omit usage data.
func CounterForModel(model string) TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return approxCounter{}
	}
	return &tiktokenCounter{enc: enc}
}
