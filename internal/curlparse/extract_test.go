package curlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCommand = `curl 'https://acme.slack.com/api/conversations.list' \
  -H 'accept: */*' \
  -b 'b=abc123; d=xoxd-AAA-111; x=1' \
  --data-raw $'------WebKitFormBoundary\r\nContent-Disposition: form-data; name="token"\r\n\r\nxoxc-BBB-222\r\n------WebKitFormBoundary--\r\n'`

func TestExtract_Sample(t *testing.T) {
	got, err := Extract(sampleCommand)
	require.NoError(t, err)

	require.Equal(t, "acme", got.WorkspaceName)
	require.Equal(t, "https://acme.slack.com", got.WorkspaceURL)
	require.Equal(t, "xoxd-AAA-111", got.Xoxd)
	require.Equal(t, "xoxc-BBB-222", got.Xoxc)
}

func TestExtract_Idempotent(t *testing.T) {
	first, err := Extract(sampleCommand)
	require.NoError(t, err)

	second, err := Extract(sampleCommand)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestExtract_QuoteStyleInvariance(t *testing.T) {
	commands := map[string]string{
		"single quotes": `curl 'https://acme.slack.com/api/x' -b 'd=xoxd-AAA-111' --data-raw 'name="token"

xoxc-BBB-222'`,
		"double quotes": `curl "https://acme.slack.com/api/x" -b "d=xoxd-AAA-111" --data-raw "name=\"token\"

xoxc-BBB-222"`,
		"ansi-c quotes": `curl $'https://acme.slack.com/api/x' -b $'d=xoxd-AAA-111' --data-raw $'name="token"\r\n\r\nxoxc-BBB-222'`,
	}

	for name, command := range commands {
		t.Run(name, func(t *testing.T) {
			got, err := Extract(command)
			require.NoError(t, err)

			require.Equal(t, "acme", got.WorkspaceName)
			require.Equal(t, "https://acme.slack.com", got.WorkspaceURL)
			require.Equal(t, "xoxd-AAA-111", got.Xoxd)
			require.Equal(t, "xoxc-BBB-222", got.Xoxc)
		})
	}
}

func TestExtract_CookieValueDecoded(t *testing.T) {
	command := `curl 'https://acme.slack.com/api/x' -b 'd=xoxd-a%2Bb%2Fc%3D%3D' --data-raw 'name="token" xoxc-1-2'`

	got, err := Extract(command)
	require.NoError(t, err)
	require.Equal(t, "xoxd-a+b/c==", got.Xoxd)
}

func TestExtract_CookieHeaderFlag(t *testing.T) {
	command := `curl 'https://acme.slack.com/api/x' -H 'Cookie: b=1; d=xoxd-AAA-111; lc=2' --data 'name="token" xoxc-BBB-222'`

	got, err := Extract(command)
	require.NoError(t, err)
	require.Equal(t, "xoxd-AAA-111", got.Xoxd)
	require.Equal(t, "xoxc-BBB-222", got.Xoxc)
}

func TestExtract_EnterpriseHost(t *testing.T) {
	command := `curl 'https://acme.enterprise.slack.com/api/x' -b 'd=xoxd-1' -d 'name="token" xoxc-2'`

	got, err := Extract(command)
	require.NoError(t, err)
	require.Equal(t, "acme", got.WorkspaceName)
	require.Equal(t, "https://acme.enterprise.slack.com", got.WorkspaceURL)
}

func TestExtract_FieldCoverage(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		wantField Field
	}{
		{
			name:      "no workspace URL",
			command:   `curl 'https://example.com/api/x' -b 'd=xoxd-1' --data-raw 'name="token" xoxc-2'`,
			wantField: FieldWorkspace,
		},
		{
			name:      "no cookie flag",
			command:   `curl 'https://acme.slack.com/api/x' --data-raw 'name="token" xoxc-2'`,
			wantField: FieldSessionToken,
		},
		{
			name:      "cookie flag without d assignment",
			command:   `curl 'https://acme.slack.com/api/x' -b 'b=1; lc=2' --data-raw 'name="token" xoxc-2'`,
			wantField: FieldSessionToken,
		},
		{
			name:      "no body flag",
			command:   `curl 'https://acme.slack.com/api/x' -b 'd=xoxd-1'`,
			wantField: FieldFormToken,
		},
		{
			name:      "body without token field",
			command:   `curl 'https://acme.slack.com/api/x' -b 'd=xoxd-1' --data-raw 'name="blocks" []'`,
			wantField: FieldFormToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.command)
			require.Error(t, err)

			var extractErr *ExtractError
			require.True(t, errors.As(err, &extractErr))
			require.Equal(t, tt.wantField, extractErr.Field)
		})
	}
}

func TestLooksLikeCurl(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain command", "curl https://acme.slack.com", true},
		{"leading whitespace", "\n  curl 'https://x'", true},
		{"tab separator", "curl\t-X POST", true},
		{"bare word", "curl", false},
		{"prefix word", "curlish things", false},
		{"not curl", "wget https://x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeCurl(tt.input); got != tt.want {
				t.Errorf("LooksLikeCurl(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtract_EscapedDoubleQuoteBody(t *testing.T) {
	// Devtools on some platforms emit double-quoted bodies with escaped quotes
	command := `curl "https://acme.slack.com/api/x" --cookie "d=xoxd-9" --data-binary "name=\"token\" xoxc-7-8"`

	got, err := Extract(command)
	require.NoError(t, err)
	require.Equal(t, "xoxd-9", got.Xoxd)
	require.Equal(t, "xoxc-7-8", got.Xoxc)
}
