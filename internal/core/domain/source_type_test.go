package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSourceType_RequiresAuth tests auth requirement detection
func TestSourceType_RequiresAuth(t *testing.T) {
	tests := []struct {
		name     string
		st       SourceType
		expected bool
	}{
		{
			name:     "no auth",
			st:       SourceType{ID: "filesystem", AuthMethod: AuthMethodNone},
			expected: false,
		},
		{
			name:     "token auth",
			st:       SourceType{ID: "github", AuthMethod: AuthMethodToken},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.st.RequiresAuth())
		})
	}
}

// TestConfigKey_Fields tests ConfigKey structure fields
func TestConfigKey_Fields(t *testing.T) {
	key := ConfigKey{
		Key:         "token",
		Label:       "Access Token",
		Description: "Personal access token used for API calls",
		Default:     "",
		Required:    true,
		Secret:      true,
	}

	assert.Equal(t, "token", key.Key)
	assert.Equal(t, "Access Token", key.Label)
	assert.True(t, key.Required)
	assert.True(t, key.Secret)
}
