package providers

import (
	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/vision"
)

// BuildChatMessages translates the standard envelope into OpenAI-dialect
// messages: an optional system turn, then a user turn that is plain text
// or, when images are attached, a part list with the images (as PNG data
// URIs) ahead of the prompt text. detail is the optional vendor resolution
// hint applied to every image.
func BuildChatMessages(req *llm.Request, detail string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	if req.SystemPrompt != "" {
		msgs = append(msgs, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}

	if len(req.Images) == 0 {
		return append(msgs, ChatMessage{Role: "user", Content: req.Prompt}), nil
	}

	parts := make([]ContentPart, 0, len(req.Images)+1)
	for _, img := range req.Images {
		uri, err := vision.DataURI(img)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: uri, Detail: detail},
		})
	}
	parts = append(parts, ContentPart{Type: "text", Text: req.Prompt})
	return append(msgs, ChatMessage{Role: "user", Content: parts}), nil
}

// TokenCounts returns vendor-reported token counts when usage is present,
// and the word-count heuristic over the prompt and completion otherwise.
func TokenCounts(usage *Usage, model, prompt, completion string) (inputTokens, outputTokens int) {
	if usage != nil {
		return usage.PromptTokens, usage.CompletionTokens
	}
	counter := llm.CounterForModel(model)
	return counter.Count(prompt), counter.Count(completion)
}
