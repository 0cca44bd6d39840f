package pipeline

import (
	"context"
	"log"

	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/page"
)

// Load fetches one section and renders it into the document. Errors never
// leave this function: each section degrades on its own.
//
// Every call takes a new generation before fetching. A result is applied
// only if no newer load for the same section has started in the meantime.
func (p *Pipeline) Load(ctx context.Context, s content.Section) {
	gen := p.generations[s]
	if gen == nil {
		log.Printf("⚠️ Unknown section %q, skipping load", s)
		return
	}
	mine := gen.Add(1)

	snap, err := p.fetch(ctx, s)
	if err != nil {
		log.Printf("❌ Failed to load %s content: %v", s, err)
	}

	render := p.renderer(s, snap, err)
	if render == nil {
		return
	}

	lock := p.applyLocks[s]
	lock.Lock()
	defer lock.Unlock()

	fragment, applied := p.doc.Apply(s, func() bool { return gen.Load() == mine }, render)
	if !applied {
		log.Printf("ℹ️ Discarded stale %s load (generation %d)", s, mine)
		return
	}
	if fragment != "" && p.broadcaster != nil {
		p.broadcaster.Broadcast(ctx, s, fragment)
	}
}

// renderer picks what a load result turns into. A nil renderer means the
// section is left as it is.
func (p *Pipeline) renderer(s content.Section, snap content.Snapshot, fetchErr error) func(*page.Binding) {
	switch s {
	case content.SectionHero, content.SectionAbout, content.SectionImpact:
		values := content.Defaults(s)
		if fetchErr == nil {
			values = content.Resolve(s, snap)
		}
		return textRenderer(s, values)

	case content.SectionGallery:
		switch {
		case fetchErr != nil:
			return page.RenderGalleryError
		case !snap.Exists():
			return page.RenderGalleryEmpty
		}
		images := childRecords(snap)
		return func(b *page.Binding) { page.RenderGallery(b, images) }

	case content.SectionTestimonials:
		switch {
		case fetchErr != nil:
			return nil
		case !snap.Exists():
			return page.RenderSampleTestimonial
		}
		testimonials := childRecords(snap)
		return func(b *page.Binding) { page.RenderTestimonials(b, testimonials) }

	case content.SectionEvents:
		switch {
		case fetchErr != nil:
			return nil
		case !snap.Exists():
			return page.RenderEventsEmpty
		}
		events := event.FromSnapshot(snap)
		policy := p.policy
		// Ordering runs inside the render so "now" is read when the result
		// is applied, not when the fetch started.
		return func(b *page.Binding) { page.RenderEvents(b, policy.Order(events)) }
	}
	return nil
}

func textRenderer(s content.Section, values content.Record) func(*page.Binding) {
	switch s {
	case content.SectionHero:
		return func(b *page.Binding) { page.RenderHero(b, values) }
	case content.SectionAbout:
		return func(b *page.Binding) { page.RenderAbout(b, values) }
	default:
		return func(b *page.Binding) { page.RenderImpact(b, values) }
	}
}

func childRecords(snap content.Snapshot) []content.Record {
	children := snap.Children()
	out := make([]content.Record, 0, len(children))
	for _, c := range children {
		out = append(out, c.Value)
	}
	return out
}
