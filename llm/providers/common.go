// Package providers holds what every vendor adapter shares: normalization
// of vendor HTTP failures into the llm error taxonomy, and the
// OpenAI-compatible wire types used by the adapters that speak that format.
package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/meddiag/llmadapter/llm"
)

// MapHTTPError converts a non-success vendor HTTP status into the shared
// taxonomy. Total over all status codes; adapters never surface raw vendor
// errors.
func MapHTTPError(status int, msg, provider string) *llm.Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &llm.Error{Code: llm.ErrAuthentication, Message: msg, HTTPStatus: status, Provider: provider}
	case http.StatusNotFound:
		return &llm.Error{Code: llm.ErrModelNotFound, Message: msg, HTTPStatus: status, Provider: provider}
	case http.StatusTooManyRequests:
		return &llm.Error{Code: llm.ErrRateLimited, Message: msg, HTTPStatus: status, Retryable: true, Provider: provider}
	case http.StatusBadRequest:
		return &llm.Error{Code: llm.ErrInvalidRequest, Message: msg, HTTPStatus: status, Provider: provider}
	default:
		return &llm.Error{Code: llm.ErrVendor, Message: msg, HTTPStatus: status, Retryable: status >= 500, Provider: provider}
	}
}

// NetworkError wraps a transport failure (connection refused, timeout, DNS)
// into the taxonomy. Always retryable.
func NetworkError(err error, provider string) *llm.Error {
	return &llm.Error{
		Code:      llm.ErrNetwork,
		Message:   err.Error(),
		Retryable: true,
		Provider:  provider,
	}
}

// ReadErrorMessage extracts a human-readable message from a vendor error
// body, falling back to the raw text when it is not the common
// {"error": {...}} shape.
func ReadErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "failed to read error response"
	}
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		if errResp.Error.Type != "" {
			return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return errResp.Error.Message
	}
	return string(data)
}
