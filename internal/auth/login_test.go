package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inovacc/slackctl/internal/slack"
	"github.com/inovacc/slackctl/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewAtPath(filepath.Join(t.TempDir(), "workspaces.json"))
}

func TestLoginWithToken_PersistsOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth.test", r.URL.Path)
		require.Equal(t, "Bearer xoxb-valid", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"ok":true,"team_id":"T0AB12CD3","team":"acme","user_id":"U001"}`)
	}))
	defer server.Close()

	s := testStore(t)
	o := NewOrchestratorWithOptions(s, slack.ClientOptions{APIBaseURL: server.URL})

	cred, err := o.LoginWithToken(context.Background(), "xoxb-valid", "")
	require.NoError(t, err)

	// Placeholder replaced by the authoritative team ID
	require.Equal(t, "T0AB12CD3", cred.WorkspaceID)
	require.Equal(t, "acme", cred.WorkspaceName)
	require.False(t, cred.IsPlaceholder())

	// First successful login becomes the default
	require.Equal(t, "T0AB12CD3", s.DefaultWorkspaceID())

	stored, err := s.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "xoxb-valid", stored.Token)
}

func TestLoginWithToken_NeverPersistsOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"invalid_auth"}`)
	}))
	defer server.Close()

	s := testStore(t)
	o := NewOrchestratorWithOptions(s, slack.ClientOptions{APIBaseURL: server.URL})

	_, err := o.LoginWithToken(context.Background(), "xoxb-bogus", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "authentication failed")

	require.Empty(t, s.Load().Workspaces, "failed probe must leave the store untouched")
	require.Empty(t, s.DefaultWorkspaceID())
}

func TestLoginWithBrowser_PersistsOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth.test", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Cookie"))

		fmt.Fprint(w, `{"ok":true,"team_id":"T0BROWSER","team":"acme"}`)
	}))
	defer server.Close()

	s := testStore(t)
	o := NewOrchestrator(s)

	cred, err := o.LoginWithBrowser(context.Background(), server.URL, "xoxd-secret", "xoxc-secret", "")
	require.NoError(t, err)
	require.Equal(t, "T0BROWSER", cred.WorkspaceID)
	require.Equal(t, "acme", cred.WorkspaceName)

	stored, err := s.Resolve("T0BROWSER")
	require.NoError(t, err)
	require.Equal(t, "xoxd-secret", stored.XoxdToken)
	require.Equal(t, "xoxc-secret", stored.XoxcToken)
}

func TestLoginWithBrowser_ExplicitNameWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"team_id":"T0BROWSER","team":"acme"}`)
	}))
	defer server.Close()

	s := testStore(t)
	o := NewOrchestrator(s)

	cred, err := o.LoginWithBrowser(context.Background(), server.URL, "xoxd-secret", "xoxc-secret", "my-workspace")
	require.NoError(t, err)
	require.Equal(t, "my-workspace", cred.WorkspaceName)
}

// rewriteTransport redirects every request to a local test server so curl
// logins against a real-looking workspace URL never leave the process.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host

	return http.DefaultTransport.RoundTrip(req)
}

const sampleCurlLogin = `curl 'https://acme.slack.com/api/client.boot' -H 'Cookie: d=xoxd-AAA' --data-raw $'name=\"token\"\r\n\r\nxoxc-BBB'`

func curlOrchestrator(t *testing.T, s *store.Store, response string) *Orchestrator {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, response)
	}))
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	return NewOrchestratorWithOptions(s, slack.ClientOptions{
		HTTPClient: &http.Client{Transport: &rewriteTransport{target: target}},
	})
}

func TestLoginWithCurl_VerifiedTeamNameWins(t *testing.T) {
	s := testStore(t)
	o := curlOrchestrator(t, s, `{"ok":true,"team_id":"T0CURL","team":"Acme Corp"}`)

	cred, err := o.LoginWithCurl(context.Background(), sampleCurlLogin, "")
	require.NoError(t, err)

	// The live team name beats the host label derived from the URL
	require.Equal(t, "Acme Corp", cred.WorkspaceName)
	require.Equal(t, "T0CURL", cred.WorkspaceID)
	require.Equal(t, "https://acme.slack.com", cred.WorkspaceURL)
}

func TestLoginWithCurl_HostLabelFallback(t *testing.T) {
	s := testStore(t)
	o := curlOrchestrator(t, s, `{"ok":true,"team_id":"T0CURL","team":""}`)

	cred, err := o.LoginWithCurl(context.Background(), sampleCurlLogin, "")
	require.NoError(t, err)

	// Only when the response omits a team name does the URL label apply
	require.Equal(t, "acme", cred.WorkspaceName)
}

func TestLoginWithCurl_ExplicitNameWins(t *testing.T) {
	s := testStore(t)
	o := curlOrchestrator(t, s, `{"ok":true,"team_id":"T0CURL","team":"Acme Corp"}`)

	cred, err := o.LoginWithCurl(context.Background(), sampleCurlLogin, "work")
	require.NoError(t, err)
	require.Equal(t, "work", cred.WorkspaceName)
}

func TestLoginWithCurl_BadCommand(t *testing.T) {
	s := testStore(t)
	o := NewOrchestrator(s)

	_, err := o.LoginWithCurl(context.Background(), "wget https://example.com", "")
	require.Error(t, err)
	require.Empty(t, s.Load().Workspaces)
}

func TestTest_UsesStoredCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"team_id":"T111","team":"acme","user":"alice","user_id":"U001"}`)
	}))
	defer server.Close()

	s := testStore(t)
	o := NewOrchestratorWithOptions(s, slack.ClientOptions{APIBaseURL: server.URL})

	_, err := o.LoginWithToken(context.Background(), "xoxb-valid", "")
	require.NoError(t, err)

	identity, err := o.Test(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "alice", identity.User)
	require.Equal(t, "U001", identity.UserID)
}

func TestWorkspaceNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://acme.slack.com", want: "acme"},
		{in: "https://acme.enterprise.slack.com", want: "acme"},
		{in: "not a url", want: "not a url"},
	}

	for _, tt := range tests {
		if got := workspaceNameFromURL(tt.in); got != tt.want {
			t.Errorf("workspaceNameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
