// Minimal Mastodon REST client: credential check, status posting, and
// fetching an account's recent statuses for training. Status content comes
// back as HTML and is expected to go through cleantext before use.
package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/skywrite/mimic/corpus"
	"github.com/skywrite/mimic/util"

	"github.com/carlmjohnson/versioninfo"
)

type Client struct {
	// Client is an HTTP client to use. If not set, defaults to util.RobustHTTPClient().
	Client    *http.Client
	Host      string
	Token     string
	UserAgent string
}

type Account struct {
	ID       string `json:"id"`
	Acct     string `json:"acct"`
	Username string `json:"username"`
}

type Status struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Reblog    *struct{} `json:"reblog"`
	CreatedAt string    `json:"created_at"`
}

type apiError struct {
	ErrStr string `json:"error"`
}

func (c *Client) getClient() *http.Client {
	if c.Client == nil {
		return util.RobustHTTPClient()
	}
	return c.Client
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, header http.Header, out interface{}) error {
	uri := c.Host + path
	var req *http.Request
	var err error
	switch method {
	case "GET":
		if len(form) > 0 {
			uri += "?" + form.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, method, uri, nil)
	default:
		req, err = http.NewRequestWithContext(ctx, method, uri, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return err
	}

	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	} else {
		req.Header.Set("User-Agent", "mimic/"+versioninfo.Short())
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.getClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err != nil || ae.ErrStr == "" {
			return fmt.Errorf("mastodon API request failed. status=%d", resp.StatusCode)
		}
		return fmt.Errorf("mastodon API request failed. status=%d: %s", resp.StatusCode, ae.ErrStr)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding mastodon response: %w", err)
		}
	}
	return nil
}

// VerifyCredentials confirms the access token works and returns the
// authenticated account.
func (c *Client) VerifyCredentials(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.do(ctx, "GET", "/api/v1/accounts/verify_credentials", nil, nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// PostStatus publishes a status. An Idempotency-Key derived from the content
// hash guards against double posting on retried requests.
func (c *Client) PostStatus(ctx context.Context, text, visibility string) (*Status, error) {
	form := url.Values{}
	form.Set("status", text)
	if visibility != "" {
		form.Set("visibility", visibility)
	}
	header := http.Header{}
	header.Set("Idempotency-Key", corpus.HashOf(text))

	var status Status
	if err := c.do(ctx, "POST", "/api/v1/statuses", form, header, &status); err != nil {
		return nil, fmt.Errorf("posting status: %w", err)
	}
	return &status, nil
}

// AccountStatuses fetches up to limit of an account's own statuses newer
// than sinceID (all, when sinceID is empty). Reblogs are excluded server
// side; the returned content is raw HTML.
func (c *Client) AccountStatuses(ctx context.Context, accountID string, limit int, sinceID string) ([]*Status, error) {
	form := url.Values{}
	form.Set("limit", strconv.Itoa(limit))
	form.Set("exclude_reblogs", "true")
	if sinceID != "" {
		form.Set("since_id", sinceID)
	}

	var statuses []*Status
	if err := c.do(ctx, "GET", "/api/v1/accounts/"+accountID+"/statuses", form, nil, &statuses); err != nil {
		return nil, fmt.Errorf("fetching statuses for account %s: %w", accountID, err)
	}
	return statuses, nil
}
