package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/inovacc/slackctl/internal/model"
)

// Draft is an unsent message held server-side.
type Draft struct {
	ID          string `json:"id"`
	ClientMsgID string `json:"client_msg_id"`
	LastUpdated string `json:"last_updated_ts"`

	// Destinations are the conversation IDs the draft targets
	Destinations []string `json:"-"`

	// Text is the flattened draft body
	Text string `json:"-"`
}

// draftBlocks is the minimal rich-text block structure the drafts endpoint
// requires for a plain-text body.
func draftBlocks(text string) ([]byte, error) {
	blocks := []map[string]any{
		{
			"type": "rich_text",
			"elements": []map[string]any{
				{
					"type": "rich_text_section",
					"elements": []map[string]any{
						{"type": "text", "text": text},
					},
				},
			},
		},
	}

	return json.Marshal(blocks)
}

// requireBrowser gates operations only exposed to browser sessions. The
// check runs before any network call.
func (c *Client) requireBrowser(op string) error {
	if c.cred.AuthType != model.AuthTypeBrowser {
		return fmt.Errorf("%s: %w", op, ErrBrowserAuthRequired)
	}

	return nil
}

// CreateDraft creates a server-side draft targeting a conversation. Drafts
// are an undocumented web-client surface: only browser credentials can reach
// them, and a token credential fails fast without a network call.
func (c *Client) CreateDraft(ctx context.Context, channelID, text string) (*Draft, error) {
	if err := c.requireBrowser("drafts.create"); err != nil {
		return nil, err
	}

	blocks, err := draftBlocks(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft blocks: %w", err)
	}

	destinations, err := json.Marshal([]map[string]string{{"channel_id": channelID}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft destinations: %w", err)
	}

	params := url.Values{}
	params.Set("blocks", string(blocks))
	params.Set("destinations", string(destinations))
	params.Set("client_msg_id", uuid.NewString())
	params.Set("is_from_composer", "true")

	var resp struct {
		apiResponse

		Draft Draft `json:"draft"`
	}

	if err := c.api(ctx, "drafts.create", params, &resp); err != nil {
		return nil, err
	}

	resp.Draft.Destinations = []string{channelID}
	resp.Draft.Text = text

	return &resp.Draft, nil
}

// ListDrafts lists the session user's active drafts.
func (c *Client) ListDrafts(ctx context.Context) ([]Draft, error) {
	if err := c.requireBrowser("drafts.list"); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("is_active", "true")

	var resp struct {
		apiResponse

		Drafts []struct {
			Draft

			Destinations []struct {
				ChannelID string `json:"channel_id"`
			} `json:"destinations"`
			Blocks []struct {
				Elements []struct {
					Elements []struct {
						Text string `json:"text"`
					} `json:"elements"`
				} `json:"elements"`
			} `json:"blocks"`
		} `json:"drafts"`
	}

	if err := c.api(ctx, "drafts.list", params, &resp); err != nil {
		return nil, err
	}

	drafts := make([]Draft, 0, len(resp.Drafts))

	for _, raw := range resp.Drafts {
		draft := raw.Draft

		for _, dest := range raw.Destinations {
			draft.Destinations = append(draft.Destinations, dest.ChannelID)
		}

		for _, block := range raw.Blocks {
			for _, section := range block.Elements {
				for _, element := range section.Elements {
					draft.Text += element.Text
				}
			}
		}

		drafts = append(drafts, draft)
	}

	return drafts, nil
}

// DeleteDraft deletes a draft by ID.
func (c *Client) DeleteDraft(ctx context.Context, draftID string) error {
	if err := c.requireBrowser("drafts.delete"); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("draft_id", draftID)

	return c.api(ctx, "drafts.delete", params, nil)
}
