package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/bookshop/internal/domain"
	context_ "github.com/mkrupp/bookshop/internal/infra/context"
	"github.com/mkrupp/bookshop/internal/infra/logging"
)

func TestConsoleHandler_PkgLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := &logging.ConsoleHandler{
		Output:    &buf,
		Level:     logging.LevelDebug,
		PkgLevels: map[string]slog.Level{"svc": logging.LevelWarn, "svc.authsvc": logging.LevelDebug},
		NoColor:   true,
	}

	slog.New(handler).With(logging.LoggerNameKey, "svc.catalogsvc.http_transport").Info("hidden")
	slog.New(handler).With(logging.LoggerNameKey, "svc.authsvc.token_service").Debug("shown", "user", "alice")
	slog.New(handler).With(logging.LoggerNameKey, "infra.http").Debug("unfiltered")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[DEBUG] shown | logger=svc.authsvc.token_service user=alice")
	assert.Contains(t, out, "unfiltered")
	assert.NotContains(t, out, "\033[")
}

func TestConsoleHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := &logging.ConsoleHandler{Output: &buf, Level: logging.LevelInfo, NoColor: true}
	slog.New(handler).WithGroup("http").Info("request", logging.Group("req", "method", "GET"))

	assert.Contains(t, buf.String(), "http.req.method=GET")
}

//nolint:paralleltest
func TestGetLogger_JSONWithTrace(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		Level:        "debug",
		JSON:         true,
		OutputHandle: &buf,
	}, "bookshop.test")
	t.Cleanup(func() {
		logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "")
	})

	buf.Reset()

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithIdentity(ctx, domain.Identity{Username: "alice"})

	logging.GetLogger("svc.test").InfoContext(ctx, "hello")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "bookshop.test", record["app"])
	assert.Equal(t, "svc.test", record[logging.LoggerNameKey])
	assert.Equal(t, map[string]any{"id": "trace-1", "user": "alice"}, record["trace"])
}

//nolint:paralleltest
func TestGetLogger_Discard(t *testing.T) {
	logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "")

	log := logging.GetLogger("svc.test")
	assert.False(t, log.Enabled(context.Background(), logging.LevelError))
}
