package page

import (
	"golang.org/x/net/html"

	"github.com/greenroots/greenroots-backend/internal/content"
)

// Counter element ids for the hero statistics, in impact field order.
var counterIDs = []struct {
	ID    string
	Field string
}{
	{"trees-planted", "treesPlanted"},
	{"volunteers", "volunteers"},
	{"cities", "cities"},
	{"co2-absorbed", "co2Absorbed"},
}

// Binding holds the document nodes each renderer writes to. Any of them may
// be nil when the template lacks the element; renderers skip those.
type Binding struct {
	Sections map[content.Section]*html.Node

	HeroTitle    *html.Node
	HeroSubtitle *html.Node

	AboutTitle    *html.Node
	AboutSubtitle *html.Node
	ProblemTitle  *html.Node
	ProblemText   *html.Node
	SolutionTitle *html.Node
	SolutionText  *html.Node

	Counters    map[string]*html.Node
	StatNumbers [4]*html.Node

	GalleryGrid      *html.Node
	TestimonialsGrid *html.Node
	EventsGrid       *html.Node
}

// Bind resolves the document contract against a parsed page.
func Bind(root *html.Node) *Binding {
	b := &Binding{
		Sections: map[content.Section]*html.Node{},
		Counters: map[string]*html.Node{},
	}

	for _, s := range content.Sections {
		if n := query(root, "#"+string(s)); n != nil {
			b.Sections[s] = n
		}
	}

	b.HeroTitle = query(root, ".hero-title")
	b.HeroSubtitle = query(root, ".hero-subtitle")

	b.AboutTitle = query(root, "#about .section-header h2")
	b.AboutSubtitle = query(root, "#about .section-header p")
	b.ProblemTitle = query(root, "#about .about-card:nth-child(1) h3")
	b.ProblemText = query(root, "#about .about-card:nth-child(1) p")
	b.SolutionTitle = query(root, "#about .about-card:nth-child(2) h3")
	b.SolutionText = query(root, "#about .about-card:nth-child(2) p")

	for _, c := range counterIDs {
		if n := query(root, "#"+c.ID); n != nil {
			b.Counters[c.ID] = n
		}
	}

	for i, card := range queryAll(root, "#impact .stat-card") {
		if i >= len(b.StatNumbers) {
			break
		}
		b.StatNumbers[i] = query(card, ".stat-number")
	}

	b.GalleryGrid = query(root, "#gallery-grid")
	b.TestimonialsGrid = query(root, "#testimonials .testimonials-grid")
	b.EventsGrid = query(root, "#events .events-grid")

	return b
}

// Missing lists the contract elements the template does not provide.
func (b *Binding) Missing() []string {
	var missing []string
	check := func(name string, n *html.Node) {
		if n == nil {
			missing = append(missing, name)
		}
	}
	check(".hero-title", b.HeroTitle)
	check(".hero-subtitle", b.HeroSubtitle)
	check("#about .section-header h2", b.AboutTitle)
	check("#about .section-header p", b.AboutSubtitle)
	check("#about .about-card:nth-child(1)", b.ProblemTitle)
	check("#about .about-card:nth-child(2)", b.SolutionTitle)
	for _, c := range counterIDs {
		check("#"+c.ID, b.Counters[c.ID])
	}
	for i, n := range b.StatNumbers {
		if n == nil {
			missing = append(missing, "#impact .stat-card .stat-number["+string(rune('1'+i))+"]")
		}
	}
	check("#gallery-grid", b.GalleryGrid)
	check("#testimonials .testimonials-grid", b.TestimonialsGrid)
	check("#events .events-grid", b.EventsGrid)
	return missing
}
