package pipeline

import (
	"context"
	"log"

	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
)

// Where resolved section data came from.
const (
	SourceStore    = "store"
	SourceDefaults = "defaults"
	SourceEmpty    = "empty"
	SourceSample   = "sample"
)

// SectionData is a section resolved the same way the page renders it, for
// JSON consumers.
type SectionData struct {
	Section content.Section `json:"section"`
	Source  string          `json:"source"`
	Data    any             `json:"data"`
}

// Resolve fetches a section and applies the loader rules without touching
// the document. Fetch errors are returned only for the list sections that
// have no fallback.
func (p *Pipeline) Resolve(ctx context.Context, s content.Section) (*SectionData, error) {
	snap, err := p.fetch(ctx, s)
	out := &SectionData{Section: s, Source: SourceStore}

	switch s {
	case content.SectionHero, content.SectionAbout, content.SectionImpact:
		if err != nil {
			log.Printf("⚠️ Serving default %s content: %v", s, err)
			out.Source, out.Data = SourceDefaults, content.Defaults(s)
			return out, nil
		}
		if !snap.Exists() {
			out.Source = SourceDefaults
		}
		out.Data = content.Resolve(s, snap)
		return out, nil

	case content.SectionTestimonials:
		if err != nil {
			return nil, err
		}
		if !snap.Exists() {
			out.Source, out.Data = SourceSample, []content.Record{content.SampleTestimonial()}
			return out, nil
		}
		out.Data = childRecords(snap)
		return out, nil

	case content.SectionGallery:
		if err != nil {
			return nil, err
		}
		if !snap.Exists() {
			out.Source, out.Data = SourceEmpty, []content.Record{}
			return out, nil
		}
		out.Data = childRecords(snap)
		return out, nil

	case content.SectionEvents:
		if err != nil {
			return nil, err
		}
		if !snap.Exists() {
			out.Source, out.Data = SourceEmpty, []event.View{}
			return out, nil
		}
		out.Data = p.policy.Order(event.FromSnapshot(snap))
		return out, nil
	}

	_, err = content.ParseSection(string(s))
	return nil, err
}
