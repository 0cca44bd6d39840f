package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// LocalStore keeps a per-collection list of submissions on this side of the
// remote store: a backup of what was pushed and the only record of what
// could not be.
type LocalStore interface {
	Append(ctx context.Context, c Collection, entry Entry) error
	List(ctx context.Context, c Collection) ([]Entry, error)
	Clear(ctx context.Context, c Collection) error
}

const appendRetries = 5

// ErrCorruptLocalList means a stored list could not be decoded. Appends
// refuse to touch it so the entries already there are not lost.
var ErrCorruptLocalList = errors.New("stored submission list is unreadable")

// RedisLocalStore holds each collection as one JSON array under
// greenroots_<collection>.
type RedisLocalStore struct {
	client *redis.Client
}

func NewRedisLocalStore(client *redis.Client) *RedisLocalStore {
	return &RedisLocalStore{client: client}
}

// Append adds entry to the end of the list. Concurrent appends are retried
// on conflict so none is lost.
func (s *RedisLocalStore) Append(ctx context.Context, c Collection, entry Entry) error {
	key := c.LocalKey()

	txf := func(tx *redis.Tx) error {
		entries, err := readEntries(ctx, tx, key)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(append(entries, entry))
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		return err
	}

	for i := 0; i < appendRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("append %s: too much contention", key)
}

// List returns the stored entries. An unreadable list is logged and listed
// as empty; it stays in Redis untouched.
func (s *RedisLocalStore) List(ctx context.Context, c Collection) ([]Entry, error) {
	entries, err := readEntries(ctx, s.client, c.LocalKey())
	if errors.Is(err, ErrCorruptLocalList) {
		log.Printf("⚠️ %v", err)
		return []Entry{}, nil
	}
	return entries, err
}

func (s *RedisLocalStore) Clear(ctx context.Context, c Collection) error {
	return s.client.Del(ctx, c.LocalKey()).Err()
}

// readEntries decodes a stored list. A missing key is an empty list.
func readEntries(ctx context.Context, cmd redis.Cmdable, key string) ([]Entry, error) {
	raw, err := cmd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLocalList, key, err)
	}
	return entries, nil
}
