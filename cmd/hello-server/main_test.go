package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/VeltarosLabs/hello/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func execute(t *testing.T, ctx context.Context, environ map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(environ)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), map[string]string{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hello-server 0.1.0")
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, context.Background(), map[string]string{}, "--log.format", "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBadEnvironment(t *testing.T) {
	_, err := execute(t, context.Background(), map[string]string{"HELLO_API_RATE_LIMIT": "fast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestServeUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := execute(t, ctx, map[string]string{"HELLO_LOG_LEVEL": "info"}, "--api.listen", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "api listening")
	assert.Contains(t, out, "shutdown complete")
}
