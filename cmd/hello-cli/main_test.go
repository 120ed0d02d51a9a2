package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeltarosLabs/hello/internal/api"
)

func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(k string) string { return env[k] })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHelloCommand(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(api.Options{}))
	defer srv.Close()

	out, err := run(t, nil, "hello", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", out)
}

func TestGreetingCommand_AddrFromEnv(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(api.Options{}))
	defer srv.Close()

	out, err := run(t, map[string]string{"HELLO_ADDR": srv.URL}, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "{\"message\":\"Hello World!\"}\n", out)
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(api.Options{}))
	defer srv.Close()

	out, err := run(t, nil, "health", "--addr", srv.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "OK "))
}

func TestVersionCommand(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(api.Options{}))
	defer srv.Close()

	out, err := run(t, nil, "version", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Client:")
	assert.Contains(t, out, "Server:")
}

func TestHelloCommand_KeyRequired(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(api.Options{Security: api.SecurityConfig{
		APIKey:        "k",
		RequireKeyFor: map[string]bool{"/hello": true},
	}}))
	defer srv.Close()

	_, err := run(t, nil, "hello", "--addr", srv.URL)
	require.Error(t, err)

	out, err := run(t, map[string]string{"HELLO_API_KEY": "k"}, "hello", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", out)
}
