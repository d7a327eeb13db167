package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cinebook/booking-gateway/internal/tokenstore"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          string
	Query         string
	Header        http.Header
}

// fakeBackend accepts requests bearing validAccess and answers 401 to everything else
type fakeBackend struct {
	lock         sync.Mutex
	validAccess  string
	refreshCalls int
	requests     []recordedRequest
	// refresh handles POST /auth/refresh, it answers 401 when nil
	refresh func(w http.ResponseWriter, r *http.Request)
	// alwaysUnauthorized lists paths that answer 401 regardless of the token
	alwaysUnauthorized map[string]bool
	// routes overrides the answer for specific paths
	routes map[string]http.HandlerFunc
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.lock.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
		Query:         r.URL.RawQuery,
		Header:        r.Header.Clone(),
	})
	if r.URL.Path == "/auth/refresh" {
		f.refreshCalls++
	}
	refresh := f.refresh
	route := f.routes[r.URL.Path]
	unauthorized := f.alwaysUnauthorized[r.URL.Path]
	validAccess := f.validAccess
	f.lock.Unlock()

	switch {
	case r.URL.Path == "/auth/refresh":
		if refresh == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		refresh(w, r)
	case route != nil:
		route(w, r)
	case unauthorized || r.Header.Get("Authorization") != "Bearer "+validAccess:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"path": r.URL.Path, "body": string(body)})
	}
}

func (f *fakeBackend) setValidAccess(access string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.validAccess = access
}

func (f *fakeBackend) refreshCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

// requestsTo returns the recorded requests for a path, in arrival order
func (f *fakeBackend) requestsTo(path string) []recordedRequest {
	f.lock.Lock()
	defer f.lock.Unlock()
	output := []recordedRequest{}
	for _, req := range f.requests {
		if req.Path == path {
			output = append(output, req)
		}
	}
	return output
}

func setupTestBackend(t *testing.T, backend *fakeBackend) *httptest.Server {
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return srv
}

func setupTestClient(t *testing.T, srv *httptest.Server, options ...ClientOption) (*Client, *tokenstore.MemoryStore) {
	store := tokenstore.NewMemoryStore()
	options = append([]ClientOption{WithBaseURL(srv.URL), WithTokenStore(store)}, options...)
	client, err := NewClient(options...)
	require.NoError(t, err)
	return client, store
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.Copy(w, strings.NewReader(body))
}

// withSettleHook observes the order in which waiters are settled
func withSettleHook(hook func(path string, err error)) ClientOption {
	return func(c *Client) error {
		c.settleHook = hook
		return nil
	}
}
