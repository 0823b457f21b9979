package bot

import (
	"context"
	"fmt"

	"github.com/skywrite/mimic/bsky"
	"github.com/skywrite/mimic/mastodon"
)

// Platform is one external network the bot trains from and publishes to.
// FetchSince pulls raw post texts starting at an opaque cursor ("" for the
// beginning) and returns the cursor to resume from next pass. Publish posts
// text and returns an identifier (URI or URL) for logging.
type Platform interface {
	Name() string
	FetchSince(ctx context.Context, cursor string) (items []string, next string, err error)
	Publish(ctx context.Context, text string) (string, error)
}

type bskyPlatform struct {
	client     *bsky.Client
	sourceRepo string
	pageSize   int
}

func (p *bskyPlatform) Name() string { return "bsky" }

// Pagination walks the source repo's whole post history across successive
// training passes. When a pass exhausts the listing the cursor resets, which
// is cheap: the store's content-hash dedup drops everything already seen.
func (p *bskyPlatform) FetchSince(ctx context.Context, cursor string) ([]string, string, error) {
	return p.client.ListPosts(ctx, p.sourceRepo, p.pageSize, cursor)
}

func (p *bskyPlatform) Publish(ctx context.Context, text string) (string, error) {
	return p.client.CreatePost(ctx, text)
}

type mastodonPlatform struct {
	client     *mastodon.Client
	accountID  string
	pageSize   int
	visibility string
}

func (p *mastodonPlatform) Name() string { return "mastodon" }

func (p *mastodonPlatform) FetchSince(ctx context.Context, cursor string) ([]string, string, error) {
	statuses, err := p.client.AccountStatuses(ctx, p.accountID, p.pageSize, cursor)
	if err != nil {
		return nil, "", err
	}
	items := make([]string, 0, len(statuses))
	next := cursor
	for i, st := range statuses {
		if st.Reblog != nil {
			continue
		}
		items = append(items, st.Content)
		// statuses come back newest first; the first ID is the high-water mark
		if i == 0 {
			next = st.ID
		}
	}
	return items, next, nil
}

func (p *mastodonPlatform) Publish(ctx context.Context, text string) (string, error) {
	status, err := p.client.PostStatus(ctx, text, p.visibility)
	if err != nil {
		return "", err
	}
	return status.URL, nil
}

// ConnectPlatforms builds and authenticates a client for every platform the
// config has credentials for. At least one platform must come up.
func (s *Server) ConnectPlatforms(ctx context.Context) error {
	if s.cfg.BskyHost != "" && s.cfg.BskyIdentifier != "" {
		client := &bsky.Client{Host: s.cfg.BskyHost}
		if err := client.CreateSession(ctx, s.cfg.BskyIdentifier, s.cfg.BskyPassword); err != nil {
			return fmt.Errorf("connecting to bluesky: %w", err)
		}
		sourceRepo := s.cfg.BskySourceRepo
		if sourceRepo == "" {
			sourceRepo = client.Auth.Did
		}
		s.platforms = append(s.platforms, &bskyPlatform{
			client:     client,
			sourceRepo: sourceRepo,
			pageSize:   s.cfg.FetchPageSize,
		})
		s.logger.Info("connected to bluesky", "host", s.cfg.BskyHost, "did", client.Auth.Did, "source", sourceRepo)
	}

	if s.cfg.MastodonHost != "" && s.cfg.MastodonToken != "" {
		client := &mastodon.Client{Host: s.cfg.MastodonHost, Token: s.cfg.MastodonToken}
		acct, err := client.VerifyCredentials(ctx)
		if err != nil {
			return fmt.Errorf("connecting to mastodon: %w", err)
		}
		accountID := s.cfg.MastodonSourceAccount
		if accountID == "" {
			accountID = acct.ID
		}
		s.platforms = append(s.platforms, &mastodonPlatform{
			client:     client,
			accountID:  accountID,
			pageSize:   s.cfg.FetchPageSize,
			visibility: s.cfg.MastodonVisibility,
		})
		s.logger.Info("connected to mastodon", "host", s.cfg.MastodonHost, "account", acct.Acct, "source", accountID)
	}

	if len(s.platforms) == 0 {
		return fmt.Errorf("no platform credentials configured")
	}
	return nil
}
