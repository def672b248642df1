package github

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v75/github"
	"github.com/stretchr/testify/assert"
)

func ghErrorResponse(status int, message string, header http.Header) *github.ErrorResponse {
	if header == nil {
		header = http.Header{}
	}
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Header: header},
		Message:  message,
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, "GET", "/user/repos"))
}

func TestWrapError_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   http.Header
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, nil, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, nil, ErrForbidden},
		{"forbidden rate limited", http.StatusForbidden, http.Header{"X-Ratelimit-Remaining": []string{"0"}}, ErrRateLimitExceeded},
		{"not found", http.StatusNotFound, nil, ErrNotFound},
		{"bad request", http.StatusBadRequest, nil, ErrBadRequest},
		{"too many requests", http.StatusTooManyRequests, nil, ErrRateLimitExceeded},
		{"server error", http.StatusInternalServerError, nil, ErrServerError},
		{"bad gateway", http.StatusBadGateway, nil, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(ghErrorResponse(tt.status, "boom", tt.header), "GET", "/repos/o/r")
			assert.True(t, errors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)

			var apiErr *APIError
			assert.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "GET", apiErr.Method)
		})
	}
}

func TestWrapError_RateLimitError(t *testing.T) {
	err := WrapError(&github.RateLimitError{Message: "rate limited"}, "GET", "/user/repos")
	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
}

func TestWrapError_PlainError(t *testing.T) {
	plain := errors.New("connection refused")
	err := WrapError(plain, "GET", "/user/repos")

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.True(t, errors.Is(err, plain), "original error stays unwrappable")
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"500", &APIError{StatusCode: http.StatusInternalServerError}, true},
		{"502", &APIError{StatusCode: http.StatusBadGateway}, true},
		{"503", &APIError{StatusCode: http.StatusServiceUnavailable}, true},
		{"429", &APIError{StatusCode: http.StatusTooManyRequests}, true},
		{"rate limit sentinel", ErrRateLimitExceeded, true},
		{"404", &APIError{StatusCode: http.StatusNotFound, Err: ErrNotFound}, false},
		{"401", &APIError{StatusCode: http.StatusUnauthorized, Err: ErrUnauthorized}, false},
		{"400", &APIError{StatusCode: http.StatusBadRequest, Err: ErrBadRequest}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(WrapError(ghErrorResponse(http.StatusUnauthorized, "bad credentials", nil), "GET", "/user")))
	assert.True(t, IsAuthError(ErrForbidden))
	assert.False(t, IsAuthError(ErrNotFound))
	assert.False(t, IsAuthError(nil))
}

func TestIsNotFoundError(t *testing.T) {
	err := WrapError(ghErrorResponse(http.StatusNotFound, "missing", nil), "GET", "/repos/o/r/readme")
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsNotFoundError(ErrServerError))
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		StatusCode: 404,
		Message:    "Not Found",
		URL:        "/repos/o/r",
		Method:     "GET",
		Err:        ErrNotFound,
	}
	msg := err.Error()
	assert.Contains(t, msg, "404")
	assert.Contains(t, msg, "GET")
	assert.Contains(t, msg, "/repos/o/r")
}
