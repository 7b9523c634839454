package providers

// OpenAI-compatible chat-completions wire types. Shared by the openaicompat
// base adapter and the Azure adapter, which speaks the same dialect behind
// a different URL scheme and auth header.

// ChatMessage is a single conversation turn. Content is either a plain
// string or a []ContentPart for multimodal turns; both marshal to the
// shapes the vendors expect.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal message body.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image as a base64 data URI. Detail is the optional
// vendor resolution hint ("high" for OpenAI and Azure).
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ChatCompletionRequest is the outgoing request body.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// ChatCompletionResponse is the incoming response body.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is one completion candidate.
type Choice struct {
	Index        int             `json:"index"`
	FinishReason string          `json:"finish_reason"`
	Message      ResponseMessage `json:"message"`
}

// ResponseMessage is the assistant turn in a response; content here is
// always plain text.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is the vendor-reported token accounting. Absent for some vendors.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelList is the GET /models response used by the custom-endpoint
// adapter's model discovery.
type ModelList struct {
	Data []ModelEntry `json:"data"`
}

// ModelEntry is one entry of a ModelList.
type ModelEntry struct {
	ID string `json:"id"`
}
