package github

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: 404, Message: "Not Found"}))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", &APIError{StatusCode: 404})))
	assert.False(t, IsNotFound(&APIError{StatusCode: 500}))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 401}))
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 403}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: 404}))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestIsRateLimited(t *testing.T) {
	err := &RateLimitError{ResetAt: time.Now(), Remaining: 0, Limit: 5000}

	assert.True(t, IsRateLimited(err))
	assert.True(t, IsRateLimited(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRateLimited(errors.New("plain")))
}

func TestErrorMessages(t *testing.T) {
	apiErr := &APIError{StatusCode: 422, Message: "Validation Failed"}
	assert.Contains(t, apiErr.Error(), "422")
	assert.Contains(t, apiErr.Error(), "Validation Failed")

	resetAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rateErr := &RateLimitError{ResetAt: resetAt}
	assert.Contains(t, rateErr.Error(), "rate limit exceeded")
	assert.Contains(t, rateErr.Error(), "2026-01-02T03:04:05Z")
}
