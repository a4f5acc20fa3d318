package service

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"oversound/internal/upstream"
)

var testTimeouts = upstream.Timeouts{
	Lookup:  250 * time.Millisecond,
	Listing: 250 * time.Millisecond,
	Write:   250 * time.Millisecond,
	Media:   250 * time.Millisecond,
}

// fakeUpstream serves canned routes keyed by "METHOD /path" and records
// every request it sees. Unknown routes answer 404.
type fakeUpstream struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []*http.Request
	srv    *httptest.Server
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{routes: make(map[string]http.HandlerFunc)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Clone(r.Context()))
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
		return
	}
	h(w, r)
}

func (f *fakeUpstream) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// json answers GET path with a fixed body.
func (f *fakeUpstream) json(path, body string) {
	f.reply(http.MethodGet, path, http.StatusOK, body)
}

func (f *fakeUpstream) reply(method, path string, status int, body string) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// hang answers GET path only after the caller gave up.
func (f *fakeUpstream) hang(path string) {
	f.handle(http.MethodGet, path, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
}

func (f *fakeUpstream) client(service upstream.Service) *upstream.Client {
	return upstream.New(service, f.srv.URL, testTimeouts, nil)
}

// requests returns the recorded requests matching method and path.
func (f *fakeUpstream) requests(method, path string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*http.Request
	for _, r := range f.calls {
		if r.Method == method && r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}
