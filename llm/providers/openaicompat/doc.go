// Package openaicompat is the shared adapter for every vendor speaking the
// OpenAI chat-completions dialect. OpenAI itself, Groq, OpenRouter and any
// user-registered custom endpoint differ only in base URL, headers, model
// catalog and image-detail hint; the HTTP handling, message translation,
// token accounting and error normalization live here once.
package openaicompat
