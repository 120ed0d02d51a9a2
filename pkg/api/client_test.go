package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iapi "github.com/VeltarosLabs/hello/internal/api"
	"github.com/VeltarosLabs/hello/pkg/api"
	"github.com/VeltarosLabs/hello/pkg/version"
)

func newServer(t *testing.T, opts iapi.Options) *api.Client {
	t.Helper()
	srv := httptest.NewServer(iapi.NewRouter(opts))
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL+"/", api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	_, err := api.New("   ")
	require.Error(t, err)
}

func TestClient_Hello(t *testing.T) {
	c := newServer(t, iapi.Options{})

	msg, err := c.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", msg)
}

func TestClient_Greeting(t *testing.T) {
	c := newServer(t, iapi.Options{})

	g, err := c.Greeting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", g.Message)
}

func TestClient_HealthAndVersion(t *testing.T) {
	c := newServer(t, iapi.Options{})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.OK)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, version.Get().Version, v.Version)
}

func TestClient_APIKey(t *testing.T) {
	opts := iapi.Options{Security: iapi.SecurityConfig{
		APIKey:        "k",
		RequireKeyFor: map[string]bool{"/hello": true},
	}}
	srv := httptest.NewServer(iapi.NewRouter(opts))
	defer srv.Close()

	anon, err := api.New(srv.URL)
	require.NoError(t, err)
	_, err = anon.Hello(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401: unauthorized")

	keyed, err := api.New(srv.URL, api.WithAPIKey("k"))
	require.NoError(t, err)
	msg, err := keyed.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", msg)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := api.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "http GET /healthz: status 502", err.Error())
}

func TestClient_UnknownFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"time":"now","extra":1}`))
	}))
	defer srv.Close()

	c, err := api.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /healthz")
}
