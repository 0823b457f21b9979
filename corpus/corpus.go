// Storage for training material and posting bookkeeping.
//
// Includes an interface and implementations using in-process memory, redis,
// and a gorm database (sqlite or postgres).
//
// The bot uses a Store for three things: accumulating normalized training
// items (deduplicated by content hash within a source), remembering which
// generated texts were already published, and tracking a per-source fetch
// cursor so repeated training passes only pull new posts.
package corpus

import (
	"context"
	"fmt"

	"github.com/spaolacci/murmur3"
)

type Store interface {
	// AddItems appends the given training items, skipping empties and items
	// already seen for this source. Returns how many were actually added.
	AddItems(ctx context.Context, source string, items []string) (int, error)

	// Items returns every stored training item in insertion order.
	Items(ctx context.Context) ([]string, error)

	Len(ctx context.Context) (int, error)

	// MarkPosted and WasPosted track hashes of already-published texts, so
	// the bot never republishes an identical generation.
	MarkPosted(ctx context.Context, hash string) error
	WasPosted(ctx context.Context, hash string) (bool, error)

	// LastSeen returns the fetch cursor for a platform source, or the empty
	// string if none is recorded yet.
	LastSeen(ctx context.Context, source string) (string, error)
	SetLastSeen(ctx context.Context, source, cursor string) error
}

// HashOf returns a fast, compact hash of a string.
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOf(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}
