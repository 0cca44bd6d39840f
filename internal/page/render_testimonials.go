package page

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/greenroots/greenroots-backend/internal/content"
)

const maxRating = 5

// RenderTestimonials replaces the testimonials grid with one card each.
func RenderTestimonials(b *Binding, testimonials []content.Record) {
	if b.TestimonialsGrid == nil {
		return
	}
	cards := make([]*html.Node, 0, len(testimonials))
	for i, t := range testimonials {
		cards = append(cards, testimonialCard(t, strconv.Itoa(i*100)))
	}
	replaceChildren(b.TestimonialsGrid, cards...)
}

// RenderSampleTestimonial shows the placeholder testimonial and its note.
func RenderSampleTestimonial(b *Binding) {
	if b.TestimonialsGrid == nil {
		return
	}
	replaceChildren(b.TestimonialsGrid,
		testimonialCard(content.SampleTestimonial(), ""),
		el("p", attrs("class", "sample-testimonial-note"), text(content.SampleTestimonialNote)),
	)
}

func testimonialCard(t content.Record, delay string) *html.Node {
	cardAttrs := attrs("class", "testimonial-card", "data-aos", "fade-up")
	if delay != "" {
		cardAttrs = append(cardAttrs, "data-aos-delay", delay)
	}

	name := t.String("name")
	author := el("div", attrs("class", "testimonial-author"))
	if image := t.String("image"); image != "" {
		author.AppendChild(el("img", attrs("src", image, "alt", name, "class", "author-image")))
		author.AppendChild(el("div", attrs("class", "author-placeholder", "hidden", ""), text("👤")))
	} else {
		author.AppendChild(el("div", attrs("class", "author-placeholder"), text("👤")))
	}
	author.AppendChild(el("div", attrs("class", "author-info"),
		el("h4", nil, text(name)),
		el("p", nil, text(t.String("role"))),
	))

	return el("div", cardAttrs,
		el("div", attrs("class", "testimonial-content"),
			el("div", attrs("class", "testimonial-text"),
				el("p", nil, text(`"`+t.String("text")+`"`)),
			),
			el("div", attrs("class", "testimonial-rating"), text(stars(t))),
			author,
		),
	)
}

// stars renders the rating, defaulting a missing or zero rating to five and
// clamping the rest to 1..5.
func stars(t content.Record) string {
	n, ok := t.Number("rating")
	rating := int(n)
	if !ok || rating == 0 {
		rating = maxRating
	}
	if rating < 1 {
		rating = 1
	}
	if rating > maxRating {
		rating = maxRating
	}
	return strings.Repeat("⭐", rating)
}
