package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	oauthAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	oauthTokenURL     = "https://slack.com/api/oauth.v2.access"

	// DefaultOAuthPort is the default port for the local callback server.
	DefaultOAuthPort = 8611
	// OAuthCallbackPath is the callback path for the OAuth redirect.
	OAuthCallbackPath = "/slackctl/callback"

	// DefaultOAuthScopes cover every operation slackctl issues with a
	// standard token.
	DefaultOAuthScopes = "channels:read,channels:history,groups:read,groups:history,im:history,im:write,mpim:history,chat:write,files:read,files:write,reactions:write,search:read,users:read"
)

// OAuthConfig holds the settings for the browser authorization flow.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       string
	Port         int
}

// OAuthToken is the outcome of a successful authorization: a standard bot
// token plus the workspace it belongs to.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	Team        struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type callbackResult struct {
	code  string
	state string
	err   error
}

// RunOAuthFlow authorizes slackctl against a workspace: it serves a local
// callback endpoint, sends the user's browser to Slack's consent page, waits
// for the redirect, and exchanges the authorization code for a token.
// openBrowser is injected so the flow stays testable and usable over SSH
// (where the caller prints the URL instead).
func RunOAuthFlow(ctx context.Context, config OAuthConfig, openBrowser func(string) error) (*OAuthToken, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("client ID and client secret are required")
	}

	if config.Port == 0 {
		config.Port = DefaultOAuthPort
	}

	if config.Scopes == "" {
		config.Scopes = DefaultOAuthScopes
	}

	redirectURI := fmt.Sprintf("http://localhost:%d%s", config.Port, OAuthCallbackPath)

	// CSRF nonce tying the callback to this flow instance
	state := uuid.NewString()

	results := make(chan callbackResult, 1)

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", config.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(OAuthCallbackPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errMsg := query.Get("error"); errMsg != "" {
			results <- callbackResult{err: fmt.Errorf("authorization refused: %s", errMsg)}
			renderCallbackPage(w, http.StatusBadRequest, "Authorization failed", errMsg)

			return
		}

		code := query.Get("code")
		if code == "" {
			results <- callbackResult{err: fmt.Errorf("no authorization code received")}
			renderCallbackPage(w, http.StatusBadRequest, "Authorization failed", "no authorization code received")

			return
		}

		results <- callbackResult{code: code, state: query.Get("state")}
		renderCallbackPage(w, http.StatusOK, "Authorization successful", "You can close this window and return to the terminal.")
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			results <- callbackResult{err: err}
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	authParams := url.Values{}
	authParams.Set("client_id", config.ClientID)
	authParams.Set("scope", config.Scopes)
	authParams.Set("redirect_uri", redirectURI)
	authParams.Set("state", state)

	authURL := fmt.Sprintf("%s?%s", oauthAuthorizeURL, authParams.Encode())

	if err := openBrowser(authURL); err != nil {
		return nil, fmt.Errorf("failed to open browser: %w\n\nOpen this URL manually:\n%s", err, authURL)
	}

	code, err := waitForCallback(ctx, results, state)
	if err != nil {
		return nil, err
	}

	return exchangeCode(ctx, config, redirectURI, code)
}

func waitForCallback(ctx context.Context, results <-chan callbackResult, state string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	select {
	case result := <-results:
		if result.err != nil {
			return "", result.err
		}

		if result.state != state {
			return "", fmt.Errorf("state mismatch in OAuth callback")
		}

		return result.code, nil
	case <-ctx.Done():
		return "", fmt.Errorf("timed out waiting for OAuth callback")
	}
}

func exchangeCode(ctx context.Context, config OAuthConfig, redirectURI, code string) (*OAuthToken, error) {
	form := url.Values{}
	form.Set("client_id", config.ClientID)
	form.Set("client_secret", config.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oauthTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var tokenResp struct {
		OAuthToken

		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if !tokenResp.OK {
		return nil, fmt.Errorf("oauth exchange failed: %s", tokenResp.Error)
	}

	return &tokenResp.OAuthToken, nil
}

func renderCallbackPage(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>slackctl</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 20vh;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, title, detail)
}
