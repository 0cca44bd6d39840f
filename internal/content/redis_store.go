package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each content document as JSON under its path and
// announces writes on a pub/sub channel with the same name.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) FetchOnce(ctx context.Context, path string) (Snapshot, error) {
	raw, err := s.client.Get(ctx, path).Result()
	if errors.Is(err, redis.Nil) {
		return Missing(), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get %s: %w", path, err)
	}
	return decodeSnapshot(raw)
}

func (s *RedisStore) Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Unsubscribe, error) {
	sub := s.client.Subscribe(ctx, path)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := sub.Channel()

	go func() {
		if snap, err := s.FetchOnce(ctx, path); err == nil {
			onChange(snap)
		} else {
			log.Printf("⚠️ initial read of %s failed: %v", path, err)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				snap, err := decodeSnapshot(msg.Payload)
				if err != nil {
					log.Printf("⚠️ bad change payload on %s: %v", path, err)
					continue
				}
				onChange(snap)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
		})
	}, nil
}

// Publish stores value at path and notifies subscribers. A nil value deletes.
func (s *RedisStore) Publish(ctx context.Context, path string, value any) error {
	if value == nil {
		if err := s.client.Del(ctx, path).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", path, err)
		}
		return s.client.Publish(ctx, path, "").Err()
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := s.client.Set(ctx, path, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return s.client.Publish(ctx, path, payload).Err()
}

func decodeSnapshot(raw string) (Snapshot, error) {
	if raw == "" || raw == "null" {
		return Missing(), nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(v), nil
}
