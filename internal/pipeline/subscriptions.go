package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/greenroots/greenroots-backend/internal/content"
)

// Start loads every section once and then attaches exactly one store
// subscription per section. Each change notification, including the
// initial one some stores send on attach, re-runs that section's loader.
// Calling Start on a running pipeline does nothing.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	p.LoadAll(ctx)

	unsubscribers := make([]content.Unsubscribe, 0, len(content.Sections))
	for _, s := range content.Sections {
		s := s
		unsub, err := p.store.Subscribe(ctx, s.Path(), func(content.Snapshot) {
			// The notification payload is ignored; the loader re-fetches so
			// every render goes through the same path.
			p.Load(ctx, s)
		})
		if err != nil {
			for _, u := range unsubscribers {
				u()
			}
			return fmt.Errorf("subscribe %s: %w", s.Path(), err)
		}
		unsubscribers = append(unsubscribers, unsub)
	}

	p.unsubscribers = unsubscribers
	p.started = true
	log.Printf("✅ Content pipeline started with %d live sections", len(unsubscribers))
	return nil
}

// Stop detaches every subscription. The pipeline can be started again.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	for _, u := range p.unsubscribers {
		if u != nil {
			u()
		}
	}
	p.unsubscribers = nil
	p.started = false
	log.Println("🔄 Content pipeline stopped")
}

// Running reports whether subscriptions are attached.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
