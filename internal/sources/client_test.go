package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

// rewriteTransport redirects every request to the test server so
// adapters can keep their real endpoint URLs
type rewriteTransport struct {
	server *httptest.Server
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(t.server.URL)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(5*time.Second, time.Millisecond, common.GetLogger())
	client.http.Transport = rewriteTransport{server: server}
	return client
}

func TestClientDo(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(`{"ok":true}`))
	})

	params := url.Values{"q": {"golang developer"}}
	headers := map[string]string{"Authorization": "Token abc"}
	body, err := client.Do(context.Background(), http.MethodGet, "https://api.example.com/jobs?page=2", params, headers, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	require.NotNil(t, got)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "golang developer", got.URL.Query().Get("q"))
	assert.Equal(t, defaultUserAgent, got.Header.Get("User-Agent"))
	assert.Equal(t, "Token abc", got.Header.Get("Authorization"))
}

func TestClientDoNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.Do(context.Background(), http.MethodGet, "https://api.example.com/jobs", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestClientGetJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"backend engineer","count":3}`))
	})

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := client.GetJSON(context.Background(), "https://api.example.com/meta", nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "backend engineer", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestClientPostJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"jobs":[]}`))
	})

	var out struct {
		Jobs []struct{} `json:"jobs"`
	}
	err := client.PostJSON(context.Background(), "https://api.example.com/search",
		map[string]string{"keywords": "golang"}, nil, &out)
	require.NoError(t, err)
}
