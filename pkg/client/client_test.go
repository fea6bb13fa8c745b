package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/internal/fakenas"
	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// newTestClient returns a client pointed at handler.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&Config{Host: "nas.test", Username: fakenas.DefaultUsername, Password: fakenas.DefaultPassword},
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithLogger(hclog.NewNullLogger()),
	)
	require.NoError(t, err)
	return c, srv
}

func TestNew_ValidatesConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, resource.ErrConfig)

	_, err = New(&Config{})
	assert.ErrorIs(t, err, resource.ErrValidation)

	c, err := New(&Config{Host: "nas.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://nas.example.com:8000", c.BaseURL())
	assert.Equal(t, DefaultUserAgent, c.Config().UserAgent)
}

func TestClient_RequestHeaders(t *testing.T) {
	var got *http.Request
	var body []byte
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"7"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"ok":true}`)
	}))

	res, err := c.Put(context.Background(), "/v1/things/1", map[string]any{"name": "x"}, `"6"`,
		resource.RequestOptions{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/v1/things/1", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, `"6"`, got.Header.Get("If-Match"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Header.Get("User-Agent"))
	_, err = uuid.Parse(got.Header.Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(body))

	assert.Equal(t, 200, res.Status)
	assert.Equal(t, `"7"`, res.ETag)
	assert.Equal(t, map[string]any{"ok": true}, res.Body)
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusNoContent)
	}))

	res, err := c.Delete(context.Background(), "/v1/things/1", resource.RequestOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Header.Get("Authorization"))
	assert.Empty(t, got.Header.Get("Content-Type"))
	assert.Equal(t, 204, res.Status)
	assert.Nil(t, res.Body)
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		raw       string
		body      any
		errorBody any
	}{
		{name: "json object", status: 200, raw: `{"a":1}`, body: map[string]any{"a": json.Number("1")}},
		{name: "json array", status: 200, raw: `[1]`, body: []any{json.Number("1")}},
		{name: "big integer survives", status: 200, raw: `{"n":18446744073709551616}`, body: map[string]any{"n": json.Number("18446744073709551616")}},
		{name: "non-json success", status: 200, raw: "OK", body: map[string]any{}},
		{name: "empty success", status: 200, raw: ""},
		{name: "json failure", status: 404, raw: `{"description":"gone"}`, errorBody: map[string]any{"description": "gone"}},
		{name: "text failure", status: 502, raw: "bad gateway"},
		{name: "trailing garbage", status: 200, raw: `{"a":1} x`, body: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newResult(tt.status, "", []byte(tt.raw))
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.raw, res.RawBody)
			assert.Equal(t, tt.body, res.Body)
			assert.Equal(t, tt.errorBody, res.ErrorBody)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	c, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := c.Get(context.Background(), "/v1/version", resource.RequestOptions{})
	assert.ErrorIs(t, err, resource.ErrTransport)
}

func TestClient_PerCallTimeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	start := time.Now()
	_, err := c.Get(context.Background(), "/slow", resource.RequestOptions{Timeout: 50 * time.Millisecond})
	assert.ErrorIs(t, err, resource.ErrTransport)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_ConfigTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	defer close(release)

	c, err := New(&Config{Host: "nas.test", Timeout: 50 * time.Millisecond}, WithBaseURL(srv.URL))
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Get(context.Background(), "/slow", resource.RequestOptions{})
	assert.ErrorIs(t, err, resource.ErrTransport)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_PerCallTimeoutExceedsConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(&Config{Host: "nas.test", Timeout: 100 * time.Millisecond}, WithBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := c.Get(context.Background(), "/slow", resource.RequestOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestClient_UnmarshalableBody(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())

	_, err := c.Post(context.Background(), "/v1/x", map[string]any{"ch": make(chan int)}, resource.RequestOptions{})
	assert.ErrorIs(t, err, resource.ErrDataType)
}

func TestClient_LoginAgainstFakeAppliance(t *testing.T) {
	nas := fakenas.New()
	c, _ := newTestClient(t, nas)
	ctx := context.Background()

	_, err := c.BearerToken()
	require.ErrorIs(t, err, resource.ErrLoginRequired)

	_, err = resource.Get(ctx, c, versionSchema, nil)
	require.ErrorIs(t, err, resource.ErrLoginRequired)

	require.NoError(t, c.Authenticate(ctx))
	assert.True(t, c.LoggedIn())

	v, err := resource.Get(ctx, c, versionSchema, nil)
	require.NoError(t, err)
	flavor, err := versionFlavor.Get(v)
	require.NoError(t, err)
	assert.Equal(t, "release", flavor)

	c.Logout()
	assert.False(t, c.LoggedIn())
	_, err = resource.Get(ctx, c, versionSchema, nil)
	assert.ErrorIs(t, err, resource.ErrLoginRequired)
}

func TestClient_LoginRejected(t *testing.T) {
	c, _ := newTestClient(t, fakenas.New())

	err := c.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, resource.ErrAuthentication)
	assert.ErrorIs(t, err, resource.ErrRequestFailed)

	var rerr *resource.RequestFailedError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusUnauthorized, rerr.StatusCode())
	assert.False(t, c.LoggedIn())
}

func TestClient_LoginWithoutToken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	}))

	err := c.Login(context.Background(), "admin", "admin")
	assert.ErrorIs(t, err, resource.ErrAuthentication)
}

func TestClient_AuthenticateNeedsUsername(t *testing.T) {
	c, err := New(&Config{Host: "nas.example.com"})
	require.NoError(t, err)
	assert.ErrorIs(t, c.Authenticate(context.Background()), resource.ErrConfig)
}

func TestClient_RejectedToken(t *testing.T) {
	c, _ := newTestClient(t, fakenas.New())
	c.SetBearerToken("1:forged")

	_, err := resource.Get(context.Background(), c, versionSchema, nil)
	var rerr *resource.RequestFailedError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusUnauthorized, rerr.StatusCode())
}

var (
	versionSchema = resource.NewSchema("test-version", resource.URI("/v1/version"))
	versionFlavor = resource.Declare(versionSchema, "flavor", resource.String)
)
