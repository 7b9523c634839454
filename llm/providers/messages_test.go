package providers

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddiag/llmadapter/llm"
)

func TestBuildChatMessagesTextOnly(t *testing.T) {
	msgs, err := BuildChatMessages(&llm.Request{Prompt: "hello"}, "")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestBuildChatMessagesWithSystemPrompt(t *testing.T) {
	msgs, err := BuildChatMessages(&llm.Request{
		Prompt:       "hello",
		SystemPrompt: "you are terse",
	}, "")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "you are terse", msgs[0].Content)
	assert.Equal(t, "user", msgs[1].Role)
}

func TestBuildChatMessagesImagesPrecedeText(t *testing.T) {
	req := &llm.Request{
		Prompt: "what do you see",
		Images: []image.Image{
			image.NewNRGBA(image.Rect(0, 0, 2, 2)),
			image.NewNRGBA(image.Rect(0, 0, 3, 3)),
		},
	}
	msgs, err := BuildChatMessages(req, "high")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	parts, ok := msgs[0].Content.([]ContentPart)
	require.True(t, ok)
	require.Len(t, parts, 3)

	for i := 0; i < 2; i++ {
		assert.Equal(t, "image_url", parts[i].Type)
		require.NotNil(t, parts[i].ImageURL)
		assert.True(t, strings.HasPrefix(parts[i].ImageURL.URL, "data:image/png;base64,"))
		assert.Equal(t, "high", parts[i].ImageURL.Detail)
	}
	assert.Equal(t, "text", parts[2].Type)
	assert.Equal(t, "what do you see", parts[2].Text)
}

func TestBuildChatMessagesOmitsEmptyDetail(t *testing.T) {
	req := &llm.Request{
		Prompt: "look",
		Images: []image.Image{image.NewNRGBA(image.Rect(0, 0, 2, 2))},
	}
	msgs, err := BuildChatMessages(req, "")
	require.NoError(t, err)
	parts := msgs[0].Content.([]ContentPart)
	assert.Empty(t, parts[0].ImageURL.Detail)
}

func TestTokenCountsPrefersVendorUsage(t *testing.T) {
	in, out := TokenCounts(&Usage{PromptTokens: 11, CompletionTokens: 7}, "gpt-4o", "prompt text", "completion text")
	assert.Equal(t, 11, in)
	assert.Equal(t, 7, out)
}

func TestTokenCountsFallsBackToCounter(t *testing.T) {
	in, out := TokenCounts(nil, "unknown-model", "one two three four", "five six")
	assert.Equal(t, llm.ApproxTokens("one two three four"), in)
	assert.Equal(t, llm.ApproxTokens("five six"), out)
}
