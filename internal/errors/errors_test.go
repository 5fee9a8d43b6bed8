package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrNetwork,
		ErrParse,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .cadm.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "network error",
			code:       ErrNetwork,
			message:    "Cannot connect to any seed nodes",
			suggestion: "Check the seeds list in your config",
		},
		{
			name:       "exec error",
			code:       ErrExec,
			message:    "Unknown command 'nop'",
			suggestion: "Run 'cadm help' for available commands",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := New(ErrNetwork, "Node 10.0.0.1:3000 unreachable", "Check the node is running")

	out := err.Error()
	assert.Contains(t, out, "✗ Node 10.0.0.1:3000 unreachable")
	assert.Contains(t, out, "Check the node is running")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "Info request failed")

	assert.Equal(t, ErrNetwork, err.Code)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("bad int"), ErrParse, "Malformed statistics field", "")

	assert.True(t, IsCode(err, ErrParse))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrParse))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrParse))

	// Wrapped further, errors.As should still find it
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCode(wrapped, ErrParse))
}
