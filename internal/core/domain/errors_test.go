package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrExtractionInProgress", ErrExtractionInProgress},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrEnumeration", ErrEnumeration},
		{"ErrDecode", ErrDecode},
		{"ErrSourceClosed", ErrSourceClosed},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthRequired", ErrAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrConfiguration tests ErrConfiguration error
func TestErrConfiguration(t *testing.T) {
	assert.Equal(t, "invalid configuration", ErrConfiguration.Error())
	assert.True(t, errors.Is(ErrConfiguration, ErrConfiguration))
	assert.False(t, errors.Is(ErrConfiguration, ErrEnumeration))
}

// TestErrEnumeration tests ErrEnumeration error
func TestErrEnumeration(t *testing.T) {
	assert.Equal(t, "enumeration failed", ErrEnumeration.Error())
	assert.True(t, errors.Is(ErrEnumeration, ErrEnumeration))
	assert.False(t, errors.Is(ErrEnumeration, ErrDecode))
}

// TestErrDecode tests ErrDecode error
func TestErrDecode(t *testing.T) {
	assert.Equal(t, "decode failed", ErrDecode.Error())
	assert.True(t, errors.Is(ErrDecode, ErrDecode))
	assert.False(t, errors.Is(ErrDecode, ErrConfiguration))
}

// TestErrors_WrappedMatch tests sentinel matching through fmt.Errorf wrapping
func TestErrors_WrappedMatch(t *testing.T) {
	wrapped := fmt.Errorf("%w: walking /tmp: permission denied", ErrEnumeration)

	assert.True(t, errors.Is(wrapped, ErrEnumeration))
	assert.False(t, errors.Is(wrapped, ErrDecode))
	assert.Contains(t, wrapped.Error(), "permission denied")
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrNotImplemented,
		ErrUnsupportedType,
		ErrExtractionInProgress,
		ErrConfiguration,
		ErrEnumeration,
		ErrDecode,
		ErrSourceClosed,
		ErrRateLimited,
		ErrAuthRequired,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"%v should not match %v", err1, err2)
			}
		}
	}
}
