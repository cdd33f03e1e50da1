package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matching the API error codes.
// Use errors.Is() to check.
var (
	ErrEmptyMessage       = errors.New("sdk: empty message")
	ErrEmbeddingProvider  = errors.New("sdk: embedding provider error")
	ErrGenerationProvider = errors.New("sdk: generation provider error")
)

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sdk: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps known API codes to sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "empty_message":
		return ErrEmptyMessage
	case "embedding_provider_error":
		return ErrEmbeddingProvider
	case "generation_provider_error":
		return ErrGenerationProvider
	default:
		return nil
	}
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
