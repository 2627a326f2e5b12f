package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var octocat = domain.GitHubUser{Login: "octocat", Name: "The Octocat", AvatarURL: "https://avatars.example/583231"}

type captureObserver struct {
	events []CallEvent
}

func (o *captureObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}

func signedInClient(t *testing.T, srv *testutil.FakeServer, obs Observer) Client {
	t.Helper()
	jar := newJar(t)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{srv.SignIn()})
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, jar, obs)
}

func march15() reportdate.Date {
	return reportdate.Date{Year: 2024, Month: time.March, Day: 15}
}

func TestClient_Me_Success(t *testing.T) {
	srv := testutil.NewFakeServer(t, octocat)
	client := signedInClient(t, srv, nil)

	id, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{
		DisplayName: "The Octocat",
		AvatarURL:   "https://avatars.example/583231",
		LoginHandle: "octocat",
	}, id)
}

func TestClient_Me_NameFallsBackToLogin(t *testing.T) {
	srv := testutil.NewFakeServer(t, domain.GitHubUser{Login: "ghost"})
	client := signedInClient(t, srv, nil)

	id, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghost", id.DisplayName)
}

func TestClient_Me_NoSession(t *testing.T) {
	srv := testutil.NewFakeServer(t, octocat)
	client := NewClient(Config{BaseURL: srv.URL}, newJar(t), nil)

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClient_Me_Unavailable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, newJar(t), nil)

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Me_GarbagePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login</html>"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, newJar(t), nil)
	_, err := client.Me(context.Background())
	assert.Error(t, err)
}

func TestClient_Report_Success(t *testing.T) {
	srv := testutil.NewFakeServer(t, octocat)
	var gotDate string
	srv.SetReport(func(date string) (int, string) {
		gotDate = date
		return http.StatusOK, "## [Fix](https://github.com/o/r/pull/12)\n- `abc1234`: Fixed bug #12\n"
	})
	client := signedInClient(t, srv, nil)

	body, err := client.Report(context.Background(), march15())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", gotDate)
	assert.Equal(t, "## [Fix](https://github.com/o/r/pull/12)\n- `abc1234`: Fixed bug #12\n", body)
	assert.Equal(t, []string{"/api/report?date=2024-03-15"}, srv.Calls())
}

func TestClient_Report_StatusErrorCarriesBody(t *testing.T) {
	srv := testutil.NewFakeServer(t, octocat)
	srv.SetReport(func(string) (int, string) {
		return http.StatusInternalServerError, "Failed to generate report: rate limited\n"
	})
	client := signedInClient(t, srv, nil)

	_, err := client.Report(context.Background(), march15())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "Failed to generate report: rate limited\n", statusErr.Body)
}

func TestClient_Report_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Config{BaseURL: srv.URL}, newJar(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Report(ctx, march15())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Logout_DoesNotFollowRedirectAndDropsCookie(t *testing.T) {
	srv := testutil.NewFakeServer(t, octocat)
	client := signedInClient(t, srv, nil)
	require.Equal(t, 1, srv.ActiveSessions())

	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, 0, srv.ActiveSessions())

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClient_LoginURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:7733/"}, newJar(t), nil)

	assert.Equal(t, "http://localhost:7733/auth/github/login", client.LoginURL(false))
	assert.Equal(t, "http://localhost:7733/auth/github/login?private_repo=true", client.LoginURL(true))
	assert.Equal(t, "http://localhost:7733", client.BaseURL())
}

func TestClient_ObserverAndRequestID(t *testing.T) {
	var headerID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerID = r.Header.Get("X-Request-Id")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	obs := &captureObserver{}
	client := NewClient(Config{BaseURL: srv.URL}, newJar(t), obs)
	_, _ = client.Me(context.Background())

	require.Len(t, obs.events, 1)
	e := obs.events[0]
	assert.Equal(t, EndpointMe, e.Endpoint)
	assert.Equal(t, headerID, e.RequestID)
	assert.NotEmpty(t, e.RequestID)
	assert.False(t, e.Success)
	assert.Equal(t, http.StatusUnauthorized, e.Status)
	assert.Equal(t, "HTTP_401", e.ErrorCode)
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "/api/report returned status 500", (&StatusError{Endpoint: EndpointReport, Code: 500}).Error())
	assert.Equal(t, "/api/report returned status 400: bad date", (&StatusError{Endpoint: EndpointReport, Code: 400, Body: "bad date\n"}).Error())
}
