package slack

import (
	"errors"
	"fmt"
)

// ErrBrowserAuthRequired is returned before any network call when an
// operation only exposed to browser sessions is invoked with a standard
// token credential.
var ErrBrowserAuthRequired = errors.New("operation requires browser authentication (xoxc/xoxd)")

// TransportError indicates the HTTP exchange itself failed: DNS, TCP, TLS,
// or a non-2xx status. Status is zero when the request never completed.
type TransportError struct {
	Method string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Method, e.Status)
	}

	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError indicates a well-formed response that explicitly signals failure
// (ok:false). The wire exchange succeeded; the remote rejected the call.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: slack API error: %s", e.Method, e.Code)
}

// ChannelNotFoundError is returned when a channel name matches nothing after
// paging through the full conversation listing.
type ChannelNotFoundError struct {
	Name string
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("channel not found: %s", e.Name)
}
