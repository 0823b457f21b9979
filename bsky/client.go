// Minimal XRPC client for the handful of Bluesky endpoints the bot needs:
// session creation, posting, and listing an account's recent posts.
package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/skywrite/mimic/util"

	"github.com/carlmjohnson/versioninfo"
)

type Client struct {
	// Client is an HTTP client to use. If not set, defaults to util.RobustHTTPClient().
	Client    *http.Client
	Host      string
	Auth      *AuthInfo
	UserAgent string
}

type AuthInfo struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Handle     string `json:"handle"`
	Did        string `json:"did"`
}

type XRPCError struct {
	ErrStr  string `json:"error"`
	Message string `json:"message"`
}

func (xe *XRPCError) Error() string {
	return fmt.Sprintf("%s: %s", xe.ErrStr, xe.Message)
}

type Error struct {
	StatusCode int
	Wrapped    error
}

func (e *Error) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("XRPC ERROR %d", e.StatusCode)
	}
	return fmt.Sprintf("XRPC ERROR %d: %s", e.StatusCode, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func (c *Client) getClient() *http.Client {
	if c.Client == nil {
		return util.RobustHTTPClient()
	}
	return c.Client
}

// do sends one XRPC request: GET with query params for queries, POST with a
// JSON body for procedures. A non-200 response is decoded as an XRPC error
// body and wrapped with the status code.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, bodyobj, out interface{}) error {
	var body *bytes.Reader
	if bodyobj != nil {
		b, err := json.Marshal(bodyobj)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	uri := c.Host + "/xrpc/" + endpoint
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, uri, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, uri, nil)
	}
	if err != nil {
		return err
	}

	if bodyobj != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	} else {
		req.Header.Set("User-Agent", "mimic/"+versioninfo.Short())
	}
	if c.Auth != nil {
		req.Header.Set("Authorization", "Bearer "+c.Auth.AccessJwt)
	}

	resp, err := c.getClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var xe XRPCError
		if err := json.NewDecoder(resp.Body).Decode(&xe); err != nil {
			return &Error{StatusCode: resp.StatusCode, Wrapped: fmt.Errorf("failed to decode xrpc error message: %w", err)}
		}
		return &Error{StatusCode: resp.StatusCode, Wrapped: &xe}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding xrpc response: %w", err)
		}
	}
	return nil
}
