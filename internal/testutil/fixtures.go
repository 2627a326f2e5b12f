package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie the report server uses for sessions.
const SessionCookieName = "session_id"

// ReportFunc produces the status and body returned for a report date.
type ReportFunc func(date string) (int, string)

// FakeServer is an httptest server speaking the report server's client-facing
// endpoints. Sessions are issued with SignIn and checked on every call.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	user     domain.GitHubUser
	sessions map[string]bool
	report   ReportFunc
	calls    []string
}

// NewFakeServer starts a FakeServer that serves user and closes it on cleanup.
// Reports default to 200 with "- Fixed bug #12".
func NewFakeServer(t *testing.T, user domain.GitHubUser) *FakeServer {
	t.Helper()
	f := &FakeServer{
		user:     user,
		sessions: make(map[string]bool),
		report: func(string) (int, string) {
			return http.StatusOK, "- Fixed bug #12"
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/me", f.handleMe)
	mux.HandleFunc("/api/report", f.handleReport)
	mux.HandleFunc("/auth/logout", f.handleLogout)
	mux.HandleFunc("/auth/github/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// SignIn creates a session and returns the cookie a browser would hold for it.
func (f *FakeServer) SignIn() *http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	f.sessions[id] = true
	return &http.Cookie{Name: SessionCookieName, Value: id, Path: "/", HttpOnly: true}
}

// SetReport replaces the report handler.
func (f *FakeServer) SetReport(fn ReportFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.report = fn
}

// Calls returns the request paths (with query) seen so far.
func (f *FakeServer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallsTo returns how many requests hit path.
func (f *FakeServer) CallsTo(path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == path || strings.HasPrefix(c, path+"?") {
			n++
		}
	}
	return n
}

// ActiveSessions returns the number of live sessions.
func (f *FakeServer) ActiveSessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *FakeServer) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.URL.RequestURI())
}

func (f *FakeServer) authorized(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.Value, f.sessions[c.Value]
}

func (f *FakeServer) handleMe(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if _, ok := f.authorized(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.user)
}

func (f *FakeServer) handleReport(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if _, ok := f.authorized(r); !ok {
		http.Error(w, "unauthorized: no session cookie", http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	fn := f.report
	f.mu.Unlock()

	status, body := fn(r.URL.Query().Get("date"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *FakeServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if id, ok := f.authorized(r); ok {
		f.mu.Lock()
		delete(f.sessions, id)
		f.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "http://frontend.invalid/", http.StatusTemporaryRedirect)
}
