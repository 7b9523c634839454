package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// ValidateRequest checks a request against the resolved model's capability
// descriptor. It runs before any network attempt and its failures are never
// retried.
//
//   - empty prompt: ErrInvalidRequest
//   - images on a non-vision model: ErrUnsupportedModality
//   - MaxTokens above the model ceiling: clamped downward with a warning,
//     not a failure
//   - MaxTokens unset: defaulted to the model ceiling
//
// Temperature is deliberately not range-checked; vendors reject out-of-range
// values themselves and that rejection surfaces as a vendor error.
func ValidateRequest(req *Request, model, provider string, caps Capabilities, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if req == nil || req.Prompt == "" {
		return &Error{
			Code:     ErrInvalidRequest,
			Message:  "prompt must not be empty",
			Provider: provider,
		}
	}
	if len(req.Images) > 0 && !caps.Vision {
		return &Error{
			Code:     ErrUnsupportedModality,
			Message:  fmt.Sprintf("model %s does not support vision/image input", model),
			Provider: provider,
		}
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = caps.MaxTokens
	}
	if req.MaxTokens > caps.MaxTokens {
		logger.Warn("clamping max_tokens to model ceiling",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Int("requested", req.MaxTokens),
			zap.Int("ceiling", caps.MaxTokens),
		)
		req.MaxTokens = caps.MaxTokens
	}
	return nil
}
