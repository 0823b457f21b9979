package corpus

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

var (
	redisItemsKey     = "mimic/items"
	redisSeenPrefix   = "mimic/seen/"
	redisPostedPrefix = "mimic/posted/"
	redisCursorPrefix = "mimic/cursor/"
)

type RedisStore struct {
	Client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisStore{Client: rdb}, nil
}

func (s *RedisStore) AddItems(ctx context.Context, source string, items []string) (int, error) {
	added := 0
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		// SADD reports whether the hash was new for this source; only then
		// does the item text get appended to the shared list
		novel, err := s.Client.SAdd(ctx, redisSeenPrefix+source, HashOf(item)).Result()
		if err != nil {
			return added, err
		}
		if novel == 0 {
			continue
		}
		if err := s.Client.RPush(ctx, redisItemsKey, item).Err(); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *RedisStore) Items(ctx context.Context) ([]string, error) {
	return s.Client.LRange(ctx, redisItemsKey, 0, -1).Result()
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.Client.LLen(ctx, redisItemsKey).Result()
	return int(n), err
}

func (s *RedisStore) MarkPosted(ctx context.Context, hash string) error {
	return s.Client.Set(ctx, redisPostedPrefix+hash, "1", 0).Err()
}

func (s *RedisStore) WasPosted(ctx context.Context, hash string) (bool, error) {
	_, err := s.Client.Get(ctx, redisPostedPrefix+hash).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) LastSeen(ctx context.Context, source string) (string, error) {
	v, err := s.Client.Get(ctx, redisCursorPrefix+source).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetLastSeen(ctx context.Context, source, cursor string) error {
	return s.Client.Set(ctx, redisCursorPrefix+source, cursor, 0).Err()
}
