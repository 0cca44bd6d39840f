package event

import (
	"context"
	"errors"
	"time"

	"github.com/greenroots/greenroots-backend/internal/content"
)

var ErrEventNotFound = errors.New("event not found")

// Repository reads events from the events section of the content store.
type Repository struct {
	store   content.Store
	timeout time.Duration
}

// NewRepository reads through store, giving up on a read after timeout.
func NewRepository(store content.Store, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Repository{store: store, timeout: timeout}
}

// List returns every stored event, cancelled and past ones included. A
// missing section is an empty list.
func (r *Repository) List(ctx context.Context) ([]Event, error) {
	snap, err := content.FetchWithin(ctx, r.store, content.SectionEvents.Path(), r.timeout)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(snap), nil
}

// GetByID finds an event by its id, or by its store key for records that
// carry no id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id || events[i].Key == id {
			return &events[i], nil
		}
	}
	return nil, ErrEventNotFound
}
