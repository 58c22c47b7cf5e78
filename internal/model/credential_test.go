package model

import (
	"encoding/json"
	"testing"
)

func TestNewTokenCredential(t *testing.T) {
	cred := NewTokenCredential("xoxb-111-222", "acme")

	if cred.AuthType != AuthTypeToken {
		t.Errorf("AuthType = %q, want %q", cred.AuthType, AuthTypeToken)
	}

	if !cred.IsPlaceholder() {
		t.Error("new credential should carry a placeholder workspace ID")
	}

	if cred.WorkspaceName != "acme" {
		t.Errorf("WorkspaceName = %q, want %q", cred.WorkspaceName, "acme")
	}

	if err := cred.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestNewBrowserCredential(t *testing.T) {
	cred := NewBrowserCredential("https://acme.slack.com/", "xoxd-AAA", "xoxc-BBB", "acme")

	if cred.AuthType != AuthTypeBrowser {
		t.Errorf("AuthType = %q, want %q", cred.AuthType, AuthTypeBrowser)
	}

	// Trailing slash must be normalized away so URL joining stays predictable
	if cred.WorkspaceURL != "https://acme.slack.com" {
		t.Errorf("WorkspaceURL = %q, want %q", cred.WorkspaceURL, "https://acme.slack.com")
	}

	if err := cred.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestCredential_TokenType(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  TokenType
	}{
		{"bot token", "xoxb-123", TokenTypeBot},
		{"user token", "xoxp-123", TokenTypeUser},
		{"unknown prefix", "xapp-123", TokenTypeUnknown},
		{"empty", "", TokenTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := Credential{AuthType: AuthTypeToken, Token: tt.token}
			if got := cred.TokenType(); got != tt.want {
				t.Errorf("TokenType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredential_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cred    Credential
		wantErr error
	}{
		{
			name:    "mixed variants",
			cred:    Credential{AuthType: AuthTypeToken, Token: "xoxb-1", XoxcToken: "xoxc-1"},
			wantErr: ErrMixedCredential,
		},
		{
			name:    "empty",
			cred:    Credential{AuthType: AuthTypeToken},
			wantErr: ErrEmptyCredential,
		},
		{
			name:    "browser fields under token tag",
			cred:    Credential{AuthType: AuthTypeToken, WorkspaceURL: "https://a.slack.com", XoxdToken: "d", XoxcToken: "c"},
			wantErr: ErrMixedCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.Validate(); got != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestCredential_JSONOmitsUnusedVariant(t *testing.T) {
	cred := NewTokenCredential("xoxb-1", "acme")

	data, err := json.Marshal(cred)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"workspace_url", "xoxd_token", "xoxc_token"} {
		if _, ok := raw[key]; ok {
			t.Errorf("token credential should not serialize %q", key)
		}
	}
}

func TestPlaceholderWorkspaceID_Unique(t *testing.T) {
	if PlaceholderWorkspaceID() == PlaceholderWorkspaceID() {
		t.Error("placeholder IDs should be unique")
	}
}
