package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// NewClient creates an HTTP client with [DefaultTimeout].
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// StatusError describes a non-2xx response.
// Message is the "message" field of a JSON error body when present,
// otherwise the trimmed body text.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %s", e.Status, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Status, e.URL)
}

// CheckStatus returns nil for 2xx responses and a *StatusError otherwise.
// Server errors and 429 responses are wrapped in [RetryableError].
// The response body is read (up to a small limit) but not closed.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    errorMessage(body),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		err.URL = resp.Request.URL.String()
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &RetryableError{Err: err}
	}
	return err
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
