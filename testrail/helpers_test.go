package testrail

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake TestRail server received
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
	Username string
	Password string
}

// fakeServer replies with a fixed status and body and records every request
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response any
}

func newFakeServer(t *testing.T, status int, response any) *fakeServer {
	t.Helper()

	fs := &fakeServer{status: status, response: response}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()

		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
			Username: user,
			Password: pass,
		})
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fs.status)
		if fs.response != nil {
			json.NewEncoder(w).Encode(fs.response)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(t, fs.requests, "no request reached the server")
	return fs.requests[len(fs.requests)-1]
}

func (fs *fakeServer) count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:  baseURL,
		Username: "user@example.com",
		Password: "secret-key",
	}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// decodeBody unmarshals a recorded JSON body into a generic map
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}
