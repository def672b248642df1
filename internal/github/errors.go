package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v75/github"
)

var (
	// ErrRateLimitExceeded is returned when the GitHub API rate limit is exceeded
	ErrRateLimitExceeded = errors.New("github rate limit exceeded")

	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("github authentication failed")

	// ErrForbidden is returned when access is forbidden
	ErrForbidden = errors.New("github access forbidden")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("github resource not found")

	// ErrBadRequest is returned when the request is malformed
	ErrBadRequest = errors.New("github bad request")

	// ErrServerError is returned when GitHub returns a server error
	ErrServerError = errors.New("github server error")
)

// APIError wraps GitHub API errors with request context.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
	Method     string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github api error: %s (status: %d, method: %s, url: %s): %v",
			e.Message, e.StatusCode, e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("github api error: %s (status: %d, method: %s, url: %s)",
		e.Message, e.StatusCode, e.Method, e.URL)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// WrapError converts a GitHub API error into a structured APIError.
func WrapError(err error, method, url string) error {
	if err == nil {
		return nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        url,
			Method:     method,
			Err:        err,
		}
		if mapped := mapErrorType(ghErr.Response.StatusCode, ghErr.Response.Header); mapped != nil {
			apiErr.Err = mapped
		}
		return apiErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			StatusCode: http.StatusForbidden,
			Message:    rateErr.Message,
			URL:        url,
			Method:     method,
			Err:        ErrRateLimitExceeded,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{
			StatusCode: http.StatusForbidden,
			Message:    abuseErr.Message,
			URL:        url,
			Method:     method,
			Err:        ErrRateLimitExceeded,
		}
	}

	return &APIError{
		Message: err.Error(),
		URL:     url,
		Method:  method,
		Err:     err,
	}
}

// mapErrorType maps HTTP status codes to sentinel errors.
func mapErrorType(statusCode int, header http.Header) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		if header != nil && header.Get("X-RateLimit-Remaining") == "0" {
			return ErrRateLimitExceeded
		}
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusTooManyRequests:
		return ErrRateLimitExceeded
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return ErrServerError
	default:
		return nil
	}
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsRetryableError reports whether an error is transient. Server errors and
// rate limits retry; 4xx client errors never do.
func IsRetryableError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return errors.Is(err, ErrRateLimitExceeded)
}

// IsAuthError checks whether an error means the token is bad or lacks scope,
// which the caller surfaces as a "reconnect GitHub" message.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsNotFoundError checks if an error is a not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
