package llm

// ErrorCode classifies adapter failures independently of the vendor that
// produced them.
type ErrorCode string

const (
	ErrAuthentication      ErrorCode = "LLM_AUTHENTICATION"       // bad or missing credential
	ErrModelNotFound       ErrorCode = "LLM_MODEL_NOT_FOUND"      // unknown model or deployment
	ErrUnsupportedModality ErrorCode = "LLM_UNSUPPORTED_MODALITY" // images sent to a non-vision model
	ErrRateLimited         ErrorCode = "LLM_RATE_LIMITED"         // vendor backpressure
	ErrNetwork             ErrorCode = "LLM_NETWORK"              // transport failure
	ErrVendor              ErrorCode = "LLM_VENDOR"               // any other non-success vendor reply
	ErrInvalidRequest      ErrorCode = "LLM_INVALID_REQUEST"      // empty prompt, bad construction options
	ErrUnknownProvider     ErrorCode = "LLM_UNKNOWN_PROVIDER"     // provider id never registered
)

// Error is the normalized failure surfaced by every adapter. Vendor-specific
// error shapes never cross the Adapter boundary.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	le, ok := err.(*Error)
	return ok && le.Code == code
}
