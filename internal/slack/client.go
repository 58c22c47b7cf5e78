// Package slack is a dual-mode Slack API client. A Client is bound to one
// credential for its lifetime and exposes the same operation surface whether
// the credential is a standard bearer token or a replayed browser session.
package slack

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/inovacc/slackctl/internal/model"
)

// Client is a Slack API client bound to a single workspace credential.
// It is stateless beyond that reference; construct one per command.
type Client struct {
	cred       model.Credential
	httpClient *http.Client
	logger     *slog.Logger
	apiBaseURL string
}

// ClientOptions configures a Client.
type ClientOptions struct {
	Logger *slog.Logger

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client

	// APIBaseURL overrides the standard-transport endpoint. Used by tests.
	APIBaseURL string
}

// NewClient creates a client for the given credential.
func NewClient(cred model.Credential, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		// No client-side deadline: listing operations over large workspaces
		// are legitimately slow. Callers cancel via ctx.
		httpClient = &http.Client{}
	}

	baseURL := opts.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}

	return &Client{
		cred:       cred,
		httpClient: httpClient,
		logger:     logger,
		apiBaseURL: baseURL,
	}
}

// Credential returns the bound credential.
func (c *Client) Credential() model.Credential {
	return c.cred
}

// Channel represents a Slack conversation.
type Channel struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsPrivate  bool    `json:"is_private"`
	IsArchived bool    `json:"is_archived"`
	IsIM       bool    `json:"is_im"`
	IsMember   bool    `json:"is_member"`
	NumMembers int     `json:"num_members"`
	Topic      Topic   `json:"topic"`
	Purpose    Purpose `json:"purpose"`
}

// Topic represents a channel topic.
type Topic struct {
	Value string `json:"value"`
}

// Purpose represents a channel purpose.
type Purpose struct {
	Value string `json:"value"`
}

// Message represents a Slack message.
type Message struct {
	Type       string     `json:"type"`
	User       string     `json:"user"`
	Text       string     `json:"text"`
	Timestamp  string     `json:"ts"`
	ThreadTS   string     `json:"thread_ts,omitempty"`
	ReplyCount int        `json:"reply_count,omitempty"`
	Reactions  []Reaction `json:"reactions,omitempty"`
	Files      []File     `json:"files,omitempty"`
	BotID      string     `json:"bot_id,omitempty"`
}

// Reaction represents a message reaction.
type Reaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// User represents a Slack user.
type User struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	RealName string      `json:"real_name"`
	IsBot    bool        `json:"is_bot"`
	Profile  UserProfile `json:"profile"`
}

// UserProfile represents a user's profile.
type UserProfile struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// AuthTestResult contains auth.test information.
type AuthTestResult struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
}

// AuthTest verifies the bound credential against the live API.
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResult, error) {
	var resp struct {
		apiResponse

		AuthTestResult
	}

	if err := c.api(ctx, "auth.test", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.AuthTestResult, nil
}

// ListChannelsOptions configures ListChannels.
type ListChannelsOptions struct {
	ExcludeArchived bool
	Types           string // comma-separated: public_channel,private_channel,mpim,im
	Limit           int
	Cursor          string
}

// ListChannelsResult contains one page of the channel listing.
type ListChannelsResult struct {
	Channels   []Channel
	NextCursor string
}

// ListChannels lists conversations, one cursor page at a time.
func (c *Client) ListChannels(ctx context.Context, opts ListChannelsOptions) (*ListChannelsResult, error) {
	params := url.Values{}
	params.Set("exclude_archived", strconv.FormatBool(opts.ExcludeArchived))

	if opts.Types != "" {
		params.Set("types", opts.Types)
	} else {
		params.Set("types", "public_channel,private_channel")
	}

	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	} else {
		params.Set("limit", "100")
	}

	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var resp struct {
		apiResponse

		Channels []Channel `json:"channels"`
	}

	if err := c.api(ctx, "conversations.list", params, &resp); err != nil {
		return nil, err
	}

	result := &ListChannelsResult{Channels: resp.Channels}
	if resp.ResponseMetadata != nil {
		result.NextCursor = resp.ResponseMetadata.NextCursor
	}

	return result, nil
}

// channelIDRe matches literal conversation IDs: a C/D/G type prefix followed
// by alphanumerics.
var channelIDRe = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)

const resolvePageSize = 200

// ResolveChannelID turns a channel name (optionally #-prefixed) into its ID.
// Literal IDs pass through without a network call. Names are matched
// case-sensitively against the full paged listing; this is a linear scan
// with no caching, acceptable while workspaces stay small relative to call
// frequency.
func (c *Client) ResolveChannelID(ctx context.Context, nameOrID string) (string, error) {
	if channelIDRe.MatchString(nameOrID) {
		return nameOrID, nil
	}

	name := strings.TrimPrefix(nameOrID, "#")

	cursor := ""
	for {
		page, err := c.ListChannels(ctx, ListChannelsOptions{
			Types:  "public_channel,private_channel,mpim,im",
			Limit:  resolvePageSize,
			Cursor: cursor,
		})
		if err != nil {
			return "", err
		}

		for _, ch := range page.Channels {
			if ch.Name == name {
				return ch.ID, nil
			}
		}

		if page.NextCursor == "" {
			return "", &ChannelNotFoundError{Name: nameOrID}
		}

		cursor = page.NextCursor
	}
}

// HistoryOptions configures GetHistory.
type HistoryOptions struct {
	Channel string
	Limit   int
	Oldest  string
	Latest  string
	Cursor  string
}

// HistoryResult contains one page of channel history.
type HistoryResult struct {
	Messages   []Message
	HasMore    bool
	NextCursor string
}

// GetHistory reads messages from a conversation.
func (c *Client) GetHistory(ctx context.Context, opts HistoryOptions) (*HistoryResult, error) {
	params := url.Values{}
	params.Set("channel", opts.Channel)

	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	} else {
		params.Set("limit", "100")
	}

	if opts.Oldest != "" {
		params.Set("oldest", opts.Oldest)
	}

	if opts.Latest != "" {
		params.Set("latest", opts.Latest)
	}

	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var resp struct {
		apiResponse

		Messages []Message `json:"messages"`
		HasMore  bool      `json:"has_more"`
	}

	if err := c.api(ctx, "conversations.history", params, &resp); err != nil {
		return nil, err
	}

	result := &HistoryResult{Messages: resp.Messages, HasMore: resp.HasMore}
	if resp.ResponseMetadata != nil {
		result.NextCursor = resp.ResponseMetadata.NextCursor
	}

	return result, nil
}

// RepliesOptions configures GetReplies.
type RepliesOptions struct {
	Channel  string
	ThreadTS string
	Limit    int
	Cursor   string
}

// GetReplies reads a message thread.
func (c *Client) GetReplies(ctx context.Context, opts RepliesOptions) (*HistoryResult, error) {
	params := url.Values{}
	params.Set("channel", opts.Channel)
	params.Set("ts", opts.ThreadTS)

	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	} else {
		params.Set("limit", "100")
	}

	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var resp struct {
		apiResponse

		Messages []Message `json:"messages"`
		HasMore  bool      `json:"has_more"`
	}

	if err := c.api(ctx, "conversations.replies", params, &resp); err != nil {
		return nil, err
	}

	result := &HistoryResult{Messages: resp.Messages, HasMore: resp.HasMore}
	if resp.ResponseMetadata != nil {
		result.NextCursor = resp.ResponseMetadata.NextCursor
	}

	return result, nil
}

// PostMessageOptions configures PostMessage.
type PostMessageOptions struct {
	Channel  string
	Text     string
	ThreadTS string
}

// PostMessageResult identifies the posted message.
type PostMessageResult struct {
	Channel   string
	Timestamp string
}

// PostMessage posts a message, optionally as a thread reply.
func (c *Client) PostMessage(ctx context.Context, opts PostMessageOptions) (*PostMessageResult, error) {
	params := url.Values{}
	params.Set("channel", opts.Channel)
	params.Set("text", opts.Text)

	if opts.ThreadTS != "" {
		params.Set("thread_ts", opts.ThreadTS)
	}

	var resp struct {
		apiResponse

		Channel   string `json:"channel"`
		Timestamp string `json:"ts"`
	}

	if err := c.api(ctx, "chat.postMessage", params, &resp); err != nil {
		return nil, err
	}

	return &PostMessageResult{Channel: resp.Channel, Timestamp: resp.Timestamp}, nil
}

// OpenDM opens (or reuses) a direct message conversation with a user and
// returns its channel ID.
func (c *Client) OpenDM(ctx context.Context, userID string) (string, error) {
	params := url.Values{}
	params.Set("users", userID)

	var resp struct {
		apiResponse

		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}

	if err := c.api(ctx, "conversations.open", params, &resp); err != nil {
		return "", err
	}

	return resp.Channel.ID, nil
}

// GetUser gets information about a user.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	params := url.Values{}
	params.Set("user", userID)

	var resp struct {
		apiResponse

		User User `json:"user"`
	}

	if err := c.api(ctx, "users.info", params, &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

// GetUsersBestEffort resolves several user IDs sequentially. Individual
// failures are logged and skipped so one unreachable user does not prevent
// displaying everything else; the returned map holds only the successes.
func (c *Client) GetUsersBestEffort(ctx context.Context, userIDs []string) map[string]*User {
	users := make(map[string]*User, len(userIDs))

	for _, id := range userIDs {
		if id == "" {
			continue
		}

		if _, done := users[id]; done {
			continue
		}

		user, err := c.GetUser(ctx, id)
		if err != nil {
			c.logger.Warn("skipping unresolvable user", "user", id, "error", err)
			continue
		}

		users[id] = user
	}

	return users
}

// AddReaction adds an emoji reaction to a message.
func (c *Client) AddReaction(ctx context.Context, channel, timestamp, name string) error {
	return c.reaction(ctx, "reactions.add", channel, timestamp, name)
}

// RemoveReaction removes an emoji reaction from a message.
func (c *Client) RemoveReaction(ctx context.Context, channel, timestamp, name string) error {
	return c.reaction(ctx, "reactions.remove", channel, timestamp, name)
}

func (c *Client) reaction(ctx context.Context, method, channel, timestamp, name string) error {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("timestamp", timestamp)
	params.Set("name", strings.Trim(name, ":"))

	return c.api(ctx, method, params, nil)
}

// SearchOptions configures message and file search.
type SearchOptions struct {
	Query string
	Sort  string // score or timestamp
	Dir   string // asc or desc
	Count int
	Page  int
}

// SearchMatch represents one message search hit.
type SearchMatch struct {
	Type      string  `json:"type"`
	User      string  `json:"user"`
	Username  string  `json:"username"`
	Text      string  `json:"text"`
	Timestamp string  `json:"ts"`
	Permalink string  `json:"permalink"`
	Channel   Channel `json:"channel"`
}

// SearchResult contains message search results.
type SearchResult struct {
	Query   string
	Total   int
	Matches []SearchMatch
}

// SearchMessages searches workspace messages.
func (c *Client) SearchMessages(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	var resp struct {
		apiResponse

		Query    string `json:"query"`
		Messages struct {
			Total   int           `json:"total"`
			Matches []SearchMatch `json:"matches"`
		} `json:"messages"`
	}

	if err := c.api(ctx, "search.messages", searchParams(opts), &resp); err != nil {
		return nil, err
	}

	return &SearchResult{
		Query:   resp.Query,
		Total:   resp.Messages.Total,
		Matches: resp.Messages.Matches,
	}, nil
}

// FileSearchResult contains file search results.
type FileSearchResult struct {
	Query   string
	Total   int
	Matches []File
}

// SearchFiles searches workspace files.
func (c *Client) SearchFiles(ctx context.Context, opts SearchOptions) (*FileSearchResult, error) {
	var resp struct {
		apiResponse

		Query string `json:"query"`
		Files struct {
			Total   int    `json:"total"`
			Matches []File `json:"matches"`
		} `json:"files"`
	}

	if err := c.api(ctx, "search.files", searchParams(opts), &resp); err != nil {
		return nil, err
	}

	return &FileSearchResult{
		Query:   resp.Query,
		Total:   resp.Files.Total,
		Matches: resp.Files.Matches,
	}, nil
}

func searchParams(opts SearchOptions) url.Values {
	params := url.Values{}
	params.Set("query", opts.Query)

	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}

	if opts.Dir != "" {
		params.Set("sort_dir", opts.Dir)
	}

	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	} else {
		params.Set("count", "20")
	}

	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	return params
}
