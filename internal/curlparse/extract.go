// Package curlparse extracts workspace credentials from a copy-pasted cURL
// command without executing it. Browser devtools render these commands
// inconsistently (quoting style, line continuations, ANSI-C $'...' strings),
// so each field is matched by its own best-effort pattern and reported
// independently when missing.
package curlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Field identifies which piece of a cURL command could not be extracted.
type Field string

const (
	FieldWorkspace    Field = "workspace"
	FieldSessionToken Field = "session_token"
	FieldFormToken    Field = "form_token"
)

// ExtractError reports a required fragment missing from the pasted command.
type ExtractError struct {
	Field Field
}

func (e *ExtractError) Error() string {
	switch e.Field {
	case FieldWorkspace:
		return "workspace URL not found in cURL command"
	case FieldSessionToken:
		return "session token (xoxd cookie) not found in cURL command"
	case FieldFormToken:
		return "form token (xoxc) not found in cURL command"
	}

	return fmt.Sprintf("field %s not found in cURL command", e.Field)
}

// Result holds the three pieces extracted from a cURL command. It is
// transient: a Result becomes a credential only after a live probe.
type Result struct {
	WorkspaceName string
	WorkspaceURL  string
	Xoxd          string
	Xoxc          string
}

var (
	// workspace origin directly following the curl token, optionally quoted
	workspaceRe = regexp.MustCompile(`curl\s+\$?['"]?(https?://([A-Za-z0-9-]+)(?:\.enterprise)?\.slack\.com)`)

	// cookie-bearing flags: short, long, or an explicit Cookie header
	cookieFlagRe = regexp.MustCompile(`(-b|--cookie|-H|--header)\s+(\$?'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"|\S+)`)

	// d= assignment inside a cookie value, up to the next separator
	xoxdRe = regexp.MustCompile(`(?:^|;)\s*d=([^;\s\\]+)`)

	// request-body flags, raw and non-raw spellings
	dataFlagRe = regexp.MustCompile(`(?:--data-raw|--data-binary|--data|-d)\s+(\$?'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"|\S+)`)

	// token field assignment eventually followed by an xoxc value
	xoxcRe = regexp.MustCompile(`(?s)name=\\?"token\\?".*?(xoxc-[A-Za-z0-9-]+)`)

	lineContinuationRe = regexp.MustCompile(`\\\r?\n`)
)

// LooksLikeCurl reports whether the text plausibly starts a cURL command.
// Used as a friendly pre-check before attempting full extraction.
func LooksLikeCurl(input string) bool {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "curl") {
		return false
	}

	rest := trimmed[len("curl"):]

	return rest != "" && (rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n')
}

// Extract parses a cURL command and returns the workspace origin plus the two
// browser tokens. It is a pure function over its input: no state is touched,
// and repeated calls yield identical results. The workspace locator gates the
// token extractions since tokens are useless without a target workspace.
func Extract(input string) (*Result, error) {
	input = lineContinuationRe.ReplaceAllString(input, " ")

	name, origin, ok := extractWorkspace(input)
	if !ok {
		return nil, &ExtractError{Field: FieldWorkspace}
	}

	xoxd, ok := extractSessionToken(input)
	if !ok {
		return nil, &ExtractError{Field: FieldSessionToken}
	}

	xoxc, ok := extractFormToken(input)
	if !ok {
		return nil, &ExtractError{Field: FieldFormToken}
	}

	return &Result{
		WorkspaceName: name,
		WorkspaceURL:  origin,
		Xoxd:          xoxd,
		Xoxc:          xoxc,
	}, nil
}

// extractWorkspace finds the slack.com origin following the curl token. The
// leftmost hostname label doubles as the workspace display name.
func extractWorkspace(input string) (name, origin string, ok bool) {
	m := workspaceRe.FindStringSubmatch(input)
	if m == nil {
		return "", "", false
	}

	return m[2], m[1], true
}

// extractSessionToken finds the d= cookie assignment and percent-decodes it.
// The raw value embeds %2B/%2F/%3D escapes; strict reverse proxies reject the
// cookie unless the decoded form is re-encoded exactly once, so the decoded
// token is the canonical stored form.
func extractSessionToken(input string) (string, bool) {
	for _, m := range cookieFlagRe.FindAllStringSubmatch(input, -1) {
		flag, value := m[1], unquote(m[2])

		if flag == "-H" || flag == "--header" {
			lower := strings.ToLower(value)
			if !strings.HasPrefix(lower, "cookie:") {
				continue
			}

			value = strings.TrimSpace(value[len("cookie:"):])
		}

		dm := xoxdRe.FindStringSubmatch(value)
		if dm == nil {
			continue
		}

		decoded, err := url.PathUnescape(dm[1])
		if err != nil {
			// Malformed escapes: keep the raw token rather than dropping it
			return dm[1], true
		}

		return decoded, true
	}

	return "", false
}

// extractFormToken finds the xoxc token inside a request-body flag value.
func extractFormToken(input string) (string, bool) {
	for _, m := range dataFlagRe.FindAllStringSubmatch(input, -1) {
		tm := xoxcRe.FindStringSubmatch(unquote(m[1]))
		if tm != nil {
			return tm[1], true
		}
	}

	return "", false
}

// unquote strips one layer of shell quoting: $'...', '...' or "...". The
// inner escape sequences are left as-is; the field patterns skip over them.
func unquote(s string) string {
	s = strings.TrimPrefix(s, "$")

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}

	return s
}
