package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	c, err := NewHTTPClient("search.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.com", c.baseURL.String())

	_, err = NewHTTPClient("  ")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewHTTPClient("http://")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewHTTPClient("http://localhost:9200", WithTimeout(0))
	assert.Error(t, err)
}

func TestForward(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(server.URL+"/cluster", WithBasicAuth("admin", "secret"), WithTimeout(time.Second))
	require.NoError(t, err)

	resp, err := c.Forward(context.Background(), &Request{
		Method: http.MethodPut,
		Path:   "/tweeter/_doc/1",
		Query:  url.Values{"refresh": {"true"}},
		Header: http.Header{"X-Opaque-Id": {"abc"}, "Connection": {"close"}},
		Body:   []byte(`{"text":"great day"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.Successful())
	assert.Equal(t, `{"result":"created"}`, string(resp.Body))
	assert.Equal(t, "Elasticsearch", resp.Header.Get("X-Elastic-Product"))

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/cluster/tweeter/_doc/1", got.URL.Path)
	assert.Equal(t, "true", got.URL.Query().Get("refresh"))
	assert.Equal(t, "abc", got.Header.Get("X-Opaque-Id"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, userAgent, got.Header.Get("User-Agent"))
	user, pass, ok := got.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, `{"text":"great day"}`, string(gotBody))
}

func TestForwardUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c, err := NewHTTPClient(server.URL)
	require.NoError(t, err)
	server.Close()

	_, err = c.Forward(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIndexAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/tweeter":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	c, err := NewHTTPClient(server.URL)
	require.NoError(t, err)

	absent, err := c.IndexAbsent(context.Background(), "tweeter")
	require.NoError(t, err)
	assert.False(t, absent)

	absent, err = c.IndexAbsent(context.Background(), "missing")
	require.NoError(t, err)
	assert.True(t, absent)

	_, err = c.IndexAbsent(context.Background(), "secret")
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.StatusCode)
}
