// Package model defines the persisted data shapes shared across slackctl.
package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// AuthType discriminates the two credential variants.
type AuthType string

const (
	// AuthTypeToken is a standard bearer token issued by a registered app.
	AuthTypeToken AuthType = "token"

	// AuthTypeBrowser is a pair of tokens replicated from an authenticated
	// web session (session cookie plus companion form token).
	AuthTypeBrowser AuthType = "browser"
)

// TokenType is the sub-kind of a standard token, derived from its prefix.
// It is never independently settable.
type TokenType string

const (
	TokenTypeBot     TokenType = "bot"
	TokenTypeUser    TokenType = "user"
	TokenTypeUnknown TokenType = "unknown"
)

const (
	botTokenPrefix  = "xoxb-"
	userTokenPrefix = "xoxp-"
)

var (
	// ErrMixedCredential is returned when a credential carries fields from
	// both variants.
	ErrMixedCredential = errors.New("credential mixes token and browser fields")

	// ErrEmptyCredential is returned when neither variant is populated.
	ErrEmptyCredential = errors.New("credential has no token material")
)

// Credential is a single workspace credential. Exactly one variant is
// populated: Token for AuthTypeToken, or WorkspaceURL/XoxdToken/XoxcToken for
// AuthTypeBrowser. A credential is immutable once created except for the
// WorkspaceID backfill during verification.
type Credential struct {
	// AuthType tags which variant is populated
	AuthType AuthType `json:"auth_type"`

	// WorkspaceID is the stable identifier assigned by Slack (team ID).
	// Holds a placeholder until a live auth.test probe resolves it.
	WorkspaceID string `json:"workspace_id"`

	// WorkspaceName is the display name, user- or probe-assigned
	WorkspaceName string `json:"workspace_name"`

	// Token is the bearer token (xoxb-... or xoxp-...). Token variant only.
	Token string `json:"token,omitempty"`

	// WorkspaceURL is the fully-qualified workspace origin. Browser variant only.
	WorkspaceURL string `json:"workspace_url,omitempty"`

	// XoxdToken is the session cookie value. Treat as a password.
	XoxdToken string `json:"xoxd_token,omitempty"`

	// XoxcToken is the companion form token. Treat as a password.
	XoxcToken string `json:"xoxc_token,omitempty"`
}

// NewTokenCredential builds a standard-variant credential with a placeholder
// workspace ID.
func NewTokenCredential(token, name string) Credential {
	return Credential{
		AuthType:      AuthTypeToken,
		WorkspaceID:   PlaceholderWorkspaceID(),
		WorkspaceName: name,
		Token:         token,
	}
}

// NewBrowserCredential builds a browser-variant credential with a placeholder
// workspace ID.
func NewBrowserCredential(workspaceURL, xoxd, xoxc, name string) Credential {
	return Credential{
		AuthType:      AuthTypeBrowser,
		WorkspaceID:   PlaceholderWorkspaceID(),
		WorkspaceName: name,
		WorkspaceURL:  strings.TrimSuffix(workspaceURL, "/"),
		XoxdToken:     xoxd,
		XoxcToken:     xoxc,
	}
}

// PlaceholderWorkspaceID returns a unique provisional workspace ID, replaced
// by the authoritative team ID once verification succeeds.
func PlaceholderWorkspaceID() string {
	return "pending-" + uuid.NewString()
}

// IsPlaceholder reports whether the credential still carries a provisional
// workspace ID.
func (c Credential) IsPlaceholder() bool {
	return strings.HasPrefix(c.WorkspaceID, "pending-")
}

// TokenType returns the sub-kind of the standard token based on its prefix.
// Browser credentials always report TokenTypeUnknown.
func (c Credential) TokenType() TokenType {
	switch {
	case strings.HasPrefix(c.Token, botTokenPrefix):
		return TokenTypeBot
	case strings.HasPrefix(c.Token, userTokenPrefix):
		return TokenTypeUser
	default:
		return TokenTypeUnknown
	}
}

// Validate checks the one-variant invariant.
func (c Credential) Validate() error {
	hasToken := c.Token != ""
	hasBrowser := c.WorkspaceURL != "" || c.XoxdToken != "" || c.XoxcToken != ""

	switch {
	case hasToken && hasBrowser:
		return ErrMixedCredential
	case !hasToken && !hasBrowser:
		return ErrEmptyCredential
	case hasToken && c.AuthType != AuthTypeToken:
		return ErrMixedCredential
	case hasBrowser && c.AuthType != AuthTypeBrowser:
		return ErrMixedCredential
	}

	return nil
}
