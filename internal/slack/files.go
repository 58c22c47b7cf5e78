package slack

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/inovacc/slackctl/internal/model"
)

// File represents a Slack file.
type File struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Title              string `json:"title"`
	Mimetype           string `json:"mimetype"`
	Filetype           string `json:"filetype"`
	User               string `json:"user"`
	Size               int64  `json:"size"`
	URLPrivate         string `json:"url_private"`
	URLPrivateDownload string `json:"url_private_download"`
	Permalink          string `json:"permalink"`
	Created            int64  `json:"created"`
}

// ListFilesOptions configures ListFiles.
type ListFilesOptions struct {
	Channel string
	User    string
	Types   string // comma-separated filter, e.g. images,pdfs
	Count   int
	Page    int
}

// ListFilesResult contains one page of the file listing.
type ListFilesResult struct {
	Files []File
	Total int
	Page  int
	Pages int
}

// ListFiles lists workspace files.
func (c *Client) ListFiles(ctx context.Context, opts ListFilesOptions) (*ListFilesResult, error) {
	params := url.Values{}

	if opts.Channel != "" {
		params.Set("channel", opts.Channel)
	}

	if opts.User != "" {
		params.Set("user", opts.User)
	}

	if opts.Types != "" {
		params.Set("types", opts.Types)
	}

	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	} else {
		params.Set("count", "100")
	}

	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	var resp struct {
		apiResponse

		Files  []File `json:"files"`
		Paging struct {
			Total int `json:"total"`
			Page  int `json:"page"`
			Pages int `json:"pages"`
		} `json:"paging"`
	}

	if err := c.api(ctx, "files.list", params, &resp); err != nil {
		return nil, err
	}

	return &ListFilesResult{
		Files: resp.Files,
		Total: resp.Paging.Total,
		Page:  resp.Paging.Page,
		Pages: resp.Paging.Pages,
	}, nil
}

// GetFileInfo gets metadata for one file.
func (c *Client) GetFileInfo(ctx context.Context, fileID string) (*File, error) {
	params := url.Values{}
	params.Set("file", fileID)

	var resp struct {
		apiResponse

		File File `json:"file"`
	}

	if err := c.api(ctx, "files.info", params, &resp); err != nil {
		return nil, err
	}

	return &resp.File, nil
}

// DownloadFile fetches a file's bytes from its private URL. The download
// endpoint is plain HTTP (not the JSON envelope), so authentication rides on
// the credential-appropriate header.
func (c *Client) DownloadFile(ctx context.Context, file *File) ([]byte, error) {
	downloadURL := file.URLPrivateDownload
	if downloadURL == "" {
		downloadURL = file.URLPrivate
	}

	if downloadURL == "" {
		return nil, fmt.Errorf("file %s has no private URL", file.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, &TransportError{Method: "files.download", Err: err}
	}

	switch c.cred.AuthType {
	case model.AuthTypeToken:
		req.Header.Set("Authorization", "Bearer "+c.cred.Token)
	case model.AuthTypeBrowser:
		req.Header.Set("Cookie", "d="+url.QueryEscape(c.cred.XoxdToken))
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: "files.download", Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Method: "files.download", Status: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

// DownloadFileText fetches a file and returns its content as text. Fails for
// content that is not valid UTF-8 rather than mangling binary data.
func (c *Client) DownloadFileText(ctx context.Context, file *File) (string, error) {
	data, err := c.DownloadFile(ctx, file)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not text (%s)", file.ID, file.Mimetype)
	}

	return string(data), nil
}
