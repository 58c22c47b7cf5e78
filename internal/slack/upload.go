package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// UploadFile is one file to upload.
type UploadFile struct {
	Name  string
	Title string
	Data  []byte
}

// UploadStage identifies which step of the upload sequence is starting.
type UploadStage int

const (
	// UploadStageBytes precedes one file's raw byte POST
	UploadStageBytes UploadStage = iota

	// UploadStageComplete precedes the single finalize call
	UploadStageComplete
)

// ProgressFunc is invoked once per file before its byte upload and once
// (with an empty filename) before the completion call.
type ProgressFunc func(stage UploadStage, filename string)

// UploadOptions configures UploadFiles.
type UploadOptions struct {
	Files          []UploadFile
	Channel        string // channel ID; empty uploads privately
	ThreadTS       string
	InitialComment string
	Progress       ProgressFunc
}

// UploadedFile identifies one finalized file.
type UploadedFile struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// UploadFiles runs the remote service's required three-step sequence: request
// a presigned slot per file, stream each file's bytes to its slot, then issue
// ONE completion call bundling every file ID. An interruption mid-sequence
// leaves already-posted files allocated but never finalized on the remote
// side; there is no cleanup protocol for that state.
func (c *Client) UploadFiles(ctx context.Context, opts UploadOptions) ([]UploadedFile, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	type slot struct {
		uploadURL string
		fileID    string
	}

	slots := make([]slot, 0, len(opts.Files))

	// Step 1: presigned slot per file
	for _, file := range opts.Files {
		params := url.Values{}
		params.Set("filename", file.Name)
		params.Set("length", strconv.Itoa(len(file.Data)))

		var resp struct {
			apiResponse

			UploadURL string `json:"upload_url"`
			FileID    string `json:"file_id"`
		}

		if err := c.api(ctx, "files.getUploadURLExternal", params, &resp); err != nil {
			return nil, err
		}

		slots = append(slots, slot{uploadURL: resp.UploadURL, fileID: resp.FileID})
	}

	// Step 2: raw bytes to each slot; the presigned URL is the capability,
	// no workspace authentication is attached
	for i, file := range opts.Files {
		if opts.Progress != nil {
			opts.Progress(UploadStageBytes, file.Name)
		}

		if err := c.postFileBytes(ctx, slots[i].uploadURL, file); err != nil {
			return nil, err
		}
	}

	// Step 3: one completion call bundling all file IDs
	if opts.Progress != nil {
		opts.Progress(UploadStageComplete, "")
	}

	manifest := make([]UploadedFile, 0, len(opts.Files))
	for i, file := range opts.Files {
		manifest = append(manifest, UploadedFile{ID: slots[i].fileID, Title: file.Title})
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file manifest: %w", err)
	}

	params := url.Values{}
	params.Set("files", string(manifestJSON))

	if opts.Channel != "" {
		params.Set("channel_id", opts.Channel)
	}

	if opts.ThreadTS != "" {
		params.Set("thread_ts", opts.ThreadTS)
	}

	if opts.InitialComment != "" {
		params.Set("initial_comment", opts.InitialComment)
	}

	var resp struct {
		apiResponse

		Files []UploadedFile `json:"files"`
	}

	if err := c.api(ctx, "files.completeUploadExternal", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Files) > 0 {
		return resp.Files, nil
	}

	return manifest, nil
}

// postFileBytes streams one file to its presigned slot as a multipart POST.
func (c *Client) postFileBytes(ctx context.Context, uploadURL string, file UploadFile) error {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return &TransportError{Method: "files.upload", Err: err}
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: "files.upload", Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Method: "files.upload", Status: resp.StatusCode}
	}

	return nil
}
