package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("dropped")
	logger.Warn().Str("airline", "grupo latam").Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"airline":"grupo latam"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNew_ErrorLogReceivesOnlyErrors(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "error_logs.txt")

	logger, closer, err := New(Options{Level: "debug", Format: "json", ErrorLogPath: path, Output: &buf})
	require.NoError(t, err)

	logger.Info().Msg("request served")
	logger.Error().Msg("prediction failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prediction failed")
	assert.NotContains(t, string(data), "request served")

	// the primary output still sees everything
	assert.Contains(t, buf.String(), "request served")
	assert.Contains(t, buf.String(), "prediction failed")
}

func TestNew_Invalid(t *testing.T) {
	_, closer, err := New(Options{Level: "loud"})
	assert.Error(t, err)
	assert.NotNil(t, closer)

	_, _, err = New(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "console", Output: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("model loaded")
	assert.Contains(t, buf.String(), "model loaded")
	assert.NotContains(t, buf.String(), `"message"`)
}
