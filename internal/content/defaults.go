package content

// Default documents for the sections that never render empty.
var defaults = map[Section]Record{
	SectionHero: {
		"title":    "Plant a Tree, Grow a Future",
		"subtitle": "Together, we can turn cities green and make our planet breathe again",
	},
	SectionAbout: {
		"title":         "Why GreenRoots Matters",
		"subtitle":      "Understanding the real-world problem we're solving together",
		"problemTitle":  "The Problem",
		"problemText":   "Urban areas are losing green spaces rapidly. Deforestation and climate change threaten our future, while community participation in environmental initiatives remains low.",
		"solutionTitle": "Our Solution",
		"solutionText":  "We connect communities with simple, actionable ways to contribute to urban greenery. Every small step today can grow into a forest tomorrow.",
	},
	SectionImpact: {
		"treesPlanted": float64(5000),
		"volunteers":   float64(2000),
		"cities":       float64(15),
		"co2Absorbed":  float64(240000),
	},
}

// SampleTestimonialNote accompanies the sample testimonial shown while no
// real testimonials exist.
const SampleTestimonialNote = "This is a sample testimonial. Check back soon for real stories from our community members!"

// Defaults returns a copy of the default document for s, nil for list sections.
func Defaults(s Section) Record {
	d, ok := defaults[s]
	if !ok {
		return nil
	}
	return Merge(d, nil)
}

// HasDefaults reports whether s falls back to a default document.
func HasDefaults(s Section) bool {
	_, ok := defaults[s]
	return ok
}

// SampleTestimonial is rendered when the testimonials path is empty.
func SampleTestimonial() Record {
	return Record{
		"name":   "Sarah Johnson",
		"role":   "Environmental Activist",
		"text":   "This initiative has completely transformed our community. The tree-planting events are well-organized and impactful. I've seen more birds and cleaner air in our neighborhood since we started participating.",
		"rating": float64(5),
		"image":  "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&auto=format&fit=crop&w=100&h=100&q=80",
	}
}
