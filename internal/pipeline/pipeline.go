package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/page"
)

// Broadcaster receives the outer HTML of a section after every render.
type Broadcaster interface {
	Broadcast(ctx context.Context, section content.Section, fragment string)
}

type Options struct {
	// FetchTimeout bounds every store read. A timeout counts as a fetch error.
	FetchTimeout time.Duration
	Policy       *event.Policy
	Broadcaster  Broadcaster
}

// Pipeline keeps the page document in sync with the content store: it loads
// every section, renders it into the document and re-renders a section each
// time the store reports a change.
type Pipeline struct {
	store        content.Store
	doc          *page.Document
	policy       *event.Policy
	broadcaster  Broadcaster
	fetchTimeout time.Duration

	// Per section: the latest started load, and a lock that serializes
	// applying a result with publishing it.
	generations map[content.Section]*atomic.Uint64
	applyLocks  map[content.Section]*sync.Mutex

	mu            sync.Mutex
	started       bool
	unsubscribers []content.Unsubscribe
}

func New(store content.Store, doc *page.Document, opts Options) *Pipeline {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.Policy == nil {
		opts.Policy = event.NewPolicy(time.Local, time.Now)
	}

	p := &Pipeline{
		store:        store,
		doc:          doc,
		policy:       opts.Policy,
		broadcaster:  opts.Broadcaster,
		fetchTimeout: opts.FetchTimeout,
		generations:  make(map[content.Section]*atomic.Uint64, len(content.Sections)),
		applyLocks:   make(map[content.Section]*sync.Mutex, len(content.Sections)),
	}
	for _, s := range content.Sections {
		p.generations[s] = new(atomic.Uint64)
		p.applyLocks[s] = new(sync.Mutex)
	}
	return p
}

// Document is the page the pipeline renders into.
func (p *Pipeline) Document() *page.Document {
	return p.doc
}

// Policy is the event ordering policy used for the events section.
func (p *Pipeline) Policy() *event.Policy {
	return p.policy
}

// LoadAll runs every section loader once, concurrently, and waits for them.
func (p *Pipeline) LoadAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, s := range content.Sections {
		wg.Add(1)
		go func(s content.Section) {
			defer wg.Done()
			p.Load(ctx, s)
		}(s)
	}
	wg.Wait()
}

// FetchTimeout is the deadline applied to every store read.
func (p *Pipeline) FetchTimeout() time.Duration {
	return p.fetchTimeout
}

// fetch reads a section with the fetch timeout applied, even against a
// store that ignores its context.
func (p *Pipeline) fetch(ctx context.Context, s content.Section) (content.Snapshot, error) {
	return content.FetchWithin(ctx, p.store, s.Path(), p.fetchTimeout)
}
