package page

import (
	"math"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/greenroots/greenroots-backend/internal/content"
)

const heroSecondLine = "Grow a Future"

// RenderHero writes the two-line headline and the subtitle. The title is
// split at its first comma; the second part is highlighted and defaults to
// "Grow a Future".
func RenderHero(b *Binding, hero content.Record) {
	if b.HeroTitle != nil {
		parts := strings.Split(hero.String("title"), ",")
		second := heroSecondLine
		if len(parts) > 1 && parts[1] != "" {
			second = parts[1]
		}
		replaceChildren(b.HeroTitle,
			text(parts[0]+", "),
			el("br", nil),
			el("span", attrs("class", "gradient-text"), text(second)),
			text(" 🌱"),
		)
	}
	if b.HeroSubtitle != nil {
		setText(b.HeroSubtitle, hero.String("subtitle"))
	}
}

// RenderAbout writes the section header and the problem/solution cards.
func RenderAbout(b *Binding, about content.Record) {
	for _, f := range []struct {
		node  *html.Node
		field string
	}{
		{b.AboutTitle, "title"},
		{b.AboutSubtitle, "subtitle"},
		{b.ProblemTitle, "problemTitle"},
		{b.ProblemText, "problemText"},
		{b.SolutionTitle, "solutionTitle"},
		{b.SolutionText, "solutionText"},
	} {
		if f.node != nil {
			setText(f.node, about.String(f.field))
		}
	}
}

// RenderImpact writes the final counter values and the data-count targets
// of the four impact stat cards.
func RenderImpact(b *Binding, impact content.Record) {
	for i, c := range counterIDs {
		if n := b.Counters[c.ID]; n != nil {
			setText(n, FormatCount(impact[c.Field]))
		}
		if n := b.StatNumbers[i]; n != nil {
			setAttr(n, "data-count", content.Text(impact[c.Field]))
		}
	}
}

// FormatCount renders a statistic as a whole number with thousands
// separators. Non-numeric values render blank.
func FormatCount(v any) string {
	n, ok := content.Number(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	return message.NewPrinter(language.English).Sprintf("%d", int64(math.Floor(n)))
}
