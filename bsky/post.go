package bsky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const feedPostCollection = "app.bsky.feed.post"

type feedPost struct {
	LexiconTypeID string   `json:"$type"`
	Text          string   `json:"text"`
	CreatedAt     string   `json:"createdAt"`
	Langs         []string `json:"langs,omitempty"`
}

type createRecordInput struct {
	Collection string      `json:"collection"`
	Repo       string      `json:"repo"`
	Record     interface{} `json:"record"`
}

type createRecordOutput struct {
	Uri string `json:"uri"`
	Cid string `json:"cid"`
}

// CreatePost publishes a plain-text post under the authenticated account and
// returns its AT-URI. Requires a prior CreateSession.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	if c.Auth == nil {
		return "", fmt.Errorf("posting requires an authenticated session")
	}
	var out createRecordOutput
	err := c.do(ctx, "POST", "com.atproto.repo.createRecord", nil, &createRecordInput{
		Collection: feedPostCollection,
		Repo:       c.Auth.Did,
		Record: &feedPost{
			LexiconTypeID: feedPostCollection,
			Text:          text,
			CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		},
	}, &out)
	if err != nil {
		return "", fmt.Errorf("creating post: %w", err)
	}
	return out.Uri, nil
}

type listRecordsOutput struct {
	Cursor  string `json:"cursor"`
	Records []struct {
		Uri   string          `json:"uri"`
		Value json.RawMessage `json:"value"`
	} `json:"records"`
}

// ListPosts fetches up to limit post texts from the given repo (handle or
// DID), newest first, starting after cursor. Returns the texts and the
// cursor for the next page ("" when exhausted).
func (c *Client) ListPosts(ctx context.Context, repo string, limit int, cursor string) ([]string, string, error) {
	params := url.Values{}
	params.Set("repo", repo)
	params.Set("collection", feedPostCollection)
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var out listRecordsOutput
	if err := c.do(ctx, "GET", "com.atproto.repo.listRecords", params, nil, &out); err != nil {
		return nil, "", fmt.Errorf("listing posts for %s: %w", repo, err)
	}

	texts := make([]string, 0, len(out.Records))
	for _, rec := range out.Records {
		var post feedPost
		if err := json.Unmarshal(rec.Value, &post); err != nil {
			// unknown record shape in the collection, skip it
			continue
		}
		if post.Text != "" {
			texts = append(texts, post.Text)
		}
	}
	return texts, out.Cursor, nil
}
