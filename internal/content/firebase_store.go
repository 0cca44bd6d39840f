package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/db"
)

// FirebaseStore reads content from the Firebase Realtime Database.
//
// The Admin SDK has no streaming listener, so subscriptions poll the path
// with conditional ETag reads and only notify when the value changed.
type FirebaseStore struct {
	client       *db.Client
	pollInterval time.Duration
}

func NewFirebaseStore(client *db.Client, pollInterval time.Duration) *FirebaseStore {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &FirebaseStore{client: client, pollInterval: pollInterval}
}

func (s *FirebaseStore) FetchOnce(ctx context.Context, path string) (Snapshot, error) {
	var v any
	if err := s.client.NewRef(path).Get(ctx, &v); err != nil {
		return Snapshot{}, fmt.Errorf("firebase get %s: %w", path, err)
	}
	return NewSnapshot(v), nil
}

func (s *FirebaseStore) Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Unsubscribe, error) {
	ref := s.client.NewRef(path)

	var initial any
	etag, err := ref.GetWithETag(ctx, &initial)
	if err != nil {
		return nil, fmt.Errorf("firebase subscribe %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		onChange(NewSnapshot(initial))

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var next any
				changed, newTag, err := ref.GetIfChanged(ctx, etag, &next)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("⚠️ firebase poll %s failed: %v", path, err)
					continue
				}
				if !changed {
					continue
				}
				etag = newTag
				onChange(NewSnapshot(next))
			}
		}
	}()

	return Unsubscribe(cancel), nil
}
