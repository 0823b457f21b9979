// Orchestration for the posting bot: wires the corpus store, the platform
// clients, the text normalizer, and the generation engine into a periodic
// fetch/train/compose/publish cycle, with an admin HTTP surface and metrics.
package bot

import (
	"fmt"
	"log/slog"
	"time"
)

// Config is an explicit, immutable configuration value: every component gets
// what it needs passed in, there is no ambient shared state.
type Config struct {
	// width of the word window used as a model key
	StateSize int

	// inclusive character bounds for an accepted generation
	MinChars int
	MaxChars int

	// generation attempt budget before a cycle gives up
	MaxTries int

	// words stripped from normalized text, whole-word, case-insensitive
	ExcludedWords []string

	// how often the daemon runs a full train/compose/publish cycle
	PollPeriod time.Duration

	// how many source posts to pull per training pass, per platform
	FetchPageSize int

	BskyHost       string
	BskyIdentifier string
	BskyPassword   string
	// account whose posts feed the training corpus; defaults to the
	// authenticated account itself
	BskySourceRepo string

	MastodonHost          string
	MastodonToken         string
	MastodonSourceAccount string
	MastodonVisibility    string

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		StateSize:          2,
		MinChars:           100,
		MaxChars:           280,
		MaxTries:           100,
		PollPeriod:         time.Hour,
		FetchPageSize:      100,
		MastodonVisibility: "public",
	}
}

func (c *Config) Validate() error {
	if c.StateSize < 1 {
		return fmt.Errorf("state size must be at least 1, got %d", c.StateSize)
	}
	if c.MinChars < 0 {
		return fmt.Errorf("min chars must not be negative, got %d", c.MinChars)
	}
	if c.MaxChars < c.MinChars {
		return fmt.Errorf("max chars (%d) must not be less than min chars (%d)", c.MaxChars, c.MinChars)
	}
	if c.MaxTries < 1 {
		return fmt.Errorf("max tries must be at least 1, got %d", c.MaxTries)
	}
	if c.PollPeriod <= 0 {
		return fmt.Errorf("poll period must be positive, got %s", c.PollPeriod)
	}
	if c.FetchPageSize < 1 {
		return fmt.Errorf("fetch page size must be at least 1, got %d", c.FetchPageSize)
	}
	return nil
}
