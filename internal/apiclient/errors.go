package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthMissing means no token was configured for an API.
	ErrAuthMissing = errors.New("API token not provided")
	// ErrUnauthorized matches a 401 response: the token was sent and rejected.
	ErrUnauthorized = errors.New("API token rejected")
	// ErrRateLimited matches a 429 response.
	ErrRateLimited = errors.New("API rate limit exceeded")
)

// StatusError is a non-2xx response.
type StatusError struct {
	API        string
	Method     string
	URL        string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s API: %s %s: HTTP %d %s", e.API, e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets errors.Is match the status-derived sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// ServerError reports whether the status is 5xx.
func (e *StatusError) ServerError() bool {
	return e.StatusCode >= 500
}

// TransportError means no response was received (DNS, refused, reset, timeout).
type TransportError struct {
	API    string
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s API: %s %s: %v", e.API, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// errorBody covers both APIs' error envelopes:
// {"errors":[{"title","detail"}]} and {"error":{"name","detail"}}.
type errorBody struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
	Error *struct {
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

// parseErrorDetail extracts a human-readable message from an error body.
func parseErrorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return strings.TrimSpace(string(body))
	}
	if eb.Error != nil {
		return joinNonEmpty(eb.Error.Name, eb.Error.Detail)
	}
	var parts []string
	for _, e := range eb.Errors {
		parts = append(parts, joinNonEmpty(e.Title, e.Detail))
	}
	return strings.Join(parts, "; ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " - " + b
}
