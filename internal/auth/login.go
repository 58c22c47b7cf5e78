package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/inovacc/slackctl/internal/curlparse"
	"github.com/inovacc/slackctl/internal/model"
	"github.com/inovacc/slackctl/internal/slack"
	"github.com/inovacc/slackctl/internal/store"
)

// ErrNoToken is returned when no token source yields a value.
var ErrNoToken = errors.New("slack token required")

// Orchestrator validates candidate credentials against the live API and, only
// on success, persists them. A credential starts with a placeholder workspace
// ID; the auth.test probe backfills the real team ID and display name before
// the store ever sees it.
type Orchestrator struct {
	store *store.Store

	// clientOpts lets tests point the probe at a local server
	clientOpts slack.ClientOptions
}

// NewOrchestrator creates an orchestrator persisting into the given store.
func NewOrchestrator(s *store.Store) *Orchestrator {
	return &Orchestrator{store: s}
}

// NewOrchestratorWithOptions creates an orchestrator with client overrides.
// Used by tests.
func NewOrchestratorWithOptions(s *store.Store, opts slack.ClientOptions) *Orchestrator {
	return &Orchestrator{store: s, clientOpts: opts}
}

// LoginWithToken registers a standard bearer-token workspace. The token is
// probed live before anything is written; a failed probe leaves the store
// untouched.
func (o *Orchestrator) LoginWithToken(ctx context.Context, token, displayName string) (*model.Credential, error) {
	cred := model.NewTokenCredential(token, displayName)

	return o.verifyAndPersist(ctx, cred, displayName)
}

// LoginWithBrowser registers a browser-session workspace from explicit
// field values.
func (o *Orchestrator) LoginWithBrowser(ctx context.Context, workspaceURL, xoxd, xoxc, displayName string) (*model.Credential, error) {
	cred := model.NewBrowserCredential(workspaceURL, xoxd, xoxc, displayName)

	return o.verifyAndPersist(ctx, cred, displayName)
}

// LoginWithCurl registers a browser-session workspace from an extracted cURL
// command. The extracted host label is never passed as the display name: the
// verified team name takes precedence, and the URL label only serves as the
// last fallback inside verifyAndPersist.
func (o *Orchestrator) LoginWithCurl(ctx context.Context, command, displayName string) (*model.Credential, error) {
	extracted, err := curlparse.Extract(command)
	if err != nil {
		return nil, err
	}

	return o.LoginWithBrowser(ctx, extracted.WorkspaceURL, extracted.Xoxd, extracted.Xoxc, displayName)
}

// verifyAndPersist probes the provisional credential, backfills its identity
// from the live response, and persists it. Order matters: no store write
// happens before the probe succeeds.
func (o *Orchestrator) verifyAndPersist(ctx context.Context, cred model.Credential, displayName string) (*model.Credential, error) {
	client := slack.NewClient(cred, o.clientOpts)

	identity, err := client.AuthTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	cred.WorkspaceID = identity.TeamID

	switch {
	case displayName != "":
		cred.WorkspaceName = displayName
	case identity.Team != "":
		cred.WorkspaceName = identity.Team
	default:
		cred.WorkspaceName = workspaceNameFromURL(cred.WorkspaceURL)
	}

	if err := o.store.Add(cred); err != nil {
		return nil, err
	}

	return &cred, nil
}

// workspaceNameFromURL derives a display name from the leftmost host label,
// e.g. "acme" from https://acme.slack.com.
func workspaceNameFromURL(workspaceURL string) string {
	parsed, err := url.Parse(workspaceURL)
	if err != nil || parsed.Host == "" {
		return workspaceURL
	}

	label, _, _ := strings.Cut(parsed.Host, ".")

	return label
}

// Test probes a stored workspace's credential against the live API.
func (o *Orchestrator) Test(ctx context.Context, identifier string) (*slack.AuthTestResult, error) {
	cred, err := o.store.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	client := slack.NewClient(cred, o.clientOpts)

	identity, err := client.AuthTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return identity, nil
}
