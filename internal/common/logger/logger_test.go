package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &m), ln)
		out = append(out, m)
	}
	return out
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(&buf, "INFO"))

	lg := New("order-service")
	lg.Info("order_created", map[string]any{"ticket_code": "#0001"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "order-service", lines[0]["service"])
	assert.Equal(t, "order_created", lines[0]["action"])
	assert.Equal(t, "#0001", lines[0]["ticket_code"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(&buf, "WARNING"))

	lg := New("kitchen")
	lg.Debug("noise", nil)
	lg.Info("noise", nil)
	lg.Error("boom", errors.New("db down"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
	errField, ok := lines[0]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "db down", errField["msg"])
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(&buf, "DEBUG"))

	ctx := WithRequestID(context.Background(), "req-42")
	New("api").InfoCtx(ctx, "http_request", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-42", lines[0]["request_id"])
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, InitWithWriter(&bytes.Buffer{}, "LOUD"))
}
