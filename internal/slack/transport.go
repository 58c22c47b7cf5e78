package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/inovacc/slackctl/internal/model"
)

const (
	defaultAPIBaseURL = "https://slack.com/api"

	// browserOrigin mimics the web client; browser-session endpoints reject
	// requests without it
	browserOrigin = "https://app.slack.com"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) slackctl"
)

// ResponseMetadata contains cursor information.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// apiResponse is the common Slack API response envelope.
type apiResponse struct {
	OK               bool              `json:"ok"`
	Error            string            `json:"error,omitempty"`
	ResponseMetadata *ResponseMetadata `json:"response_metadata,omitempty"`
}

// api invokes one remote method. Every client operation funnels through here:
// the bound credential's variant selects exactly one of the two transports,
// the shared envelope is checked, and the payload is decoded into result.
func (c *Client) api(ctx context.Context, method string, params url.Values, result any) error {
	var (
		body []byte
		err  error
	)

	switch c.cred.AuthType {
	case model.AuthTypeToken:
		body, err = c.callToken(ctx, method, params)
	case model.AuthTypeBrowser:
		body, err = c.callBrowser(ctx, method, params)
	default:
		return fmt.Errorf("unknown auth type %q", c.cred.AuthType)
	}

	if err != nil {
		return err
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if !envelope.OK {
		return &APIError{Method: method, Code: envelope.Error}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return &TransportError{Method: method, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

// callToken performs the standard-transport call: POST to the Slack API base
// with the bearer token in the Authorization header.
func (c *Client) callToken(ctx context.Context, method string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	endpoint := fmt.Sprintf("%s/%s", c.apiBaseURL, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.cred.Token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	return c.roundTrip(req, method)
}

// callBrowser performs the browser-transport call: POST to the workspace's
// own /api path with the xoxc token in the form body and the xoxd session
// cookie. The xoxd value is percent-encoded before insertion; strict reverse
// proxies reject cookies with unescaped reserved characters.
func (c *Client) callBrowser(ctx context.Context, method string, params url.Values) ([]byte, error) {
	form := url.Values{}
	form.Set("token", c.cred.XoxcToken)

	for key, values := range params {
		for _, value := range values {
			form.Add(key, value)
		}
	}

	endpoint := fmt.Sprintf("%s/api/%s", c.cred.WorkspaceURL, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "d="+url.QueryEscape(c.cred.XoxdToken))
	req.Header.Set("Origin", browserOrigin)
	req.Header.Set("User-Agent", userAgent)

	return c.roundTrip(req, method)
}

func (c *Client) roundTrip(req *http.Request, method string) ([]byte, error) {
	c.logger.Debug("slack API request", "method", method, "transport", string(c.cred.AuthType))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: method, Status: resp.StatusCode}
	}

	return body, nil
}
