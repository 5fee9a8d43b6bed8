package logger

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{
			name:      "logs when CADM_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "does not log when CADM_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			if tt.envValue != "" {
				t.Setenv("CADM_DEBUG", tt.envValue)
			} else {
				os.Unsetenv("CADM_DEBUG")
			}

			l := NewEnvLogger("[test]")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] test message arg")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[cluster]")
	l.Info("queried %d nodes", 3)
	l.Warn("node %s slow", "n1")
	l.Error("node %s down", "n2")

	out := buf.String()
	assert.Contains(t, out, "[cluster] queried 3 nodes")
	assert.Contains(t, out, "WARN: node n1 slow")
	assert.Contains(t, out, "ERROR: node n2 down")
}

func TestNoopLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := Noop()
	l.Info("should not appear")
	l.Error("should not appear either")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("d %d", 1)
	l.Info("i")
	l.Warn("w")

	assert.Len(t, l.Messages, 3)
	assert.True(t, l.HasLevel("debug"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.Equal(t, "d 1", l.Messages[0].Message)

	l.Clear()
	assert.Empty(t, l.Messages)
}
