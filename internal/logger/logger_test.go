package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestContextLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())
	ctx = WithLogger(ctx, map[string]interface{}{"run_id": "abc"})

	ErrorLog(ctx, "insert failed: %v (%s)", errors.New("boom"), "employees")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["run_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "insert failed: boom (employees)", line["message"])
	assert.Equal(t, "error", line["level"])
}

func TestGlobalFallbackDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		InfoLog(context.Background(), "hello %d", 1)
		WarnLog(context.Background(), "careful")
		DebugLog(context.Background(), "details")
	})
}

func TestErrorLogFormatsErrorArgument(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	ErrorLog(ctx, "Failed to initialize application: %v", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "Failed to initialize application: boom", line["message"])
	assert.NotContains(t, buf.String(), "MISSING")
}
