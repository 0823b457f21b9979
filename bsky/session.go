package bsky

import (
	"context"
	"fmt"
)

type createSessionInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// CreateSession authenticates with an identifier (handle or DID) and an app
// password, and stores the resulting tokens on the client for later calls.
func (c *Client) CreateSession(ctx context.Context, identifier, password string) error {
	var auth AuthInfo
	err := c.do(ctx, "POST", "com.atproto.server.createSession", nil, &createSessionInput{
		Identifier: identifier,
		Password:   password,
	}, &auth)
	if err != nil {
		return fmt.Errorf("creating session for %s: %w", identifier, err)
	}
	c.Auth = &auth
	return nil
}
