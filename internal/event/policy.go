package event

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxEvents caps how many events the landing page shows.
const MaxEvents = 6

const (
	pastLabel   = "PAST EVENT"
	endedLabel  = "Event Ended"
	waitlist    = "Join Waitlist"
	registerNow = "Register Now"
	mutedColor  = "#6c757d"
	defaultIcon = "🌱"
)

var statusColors = map[string]string{
	StatusUpcoming:  "#17a2b8",
	StatusOngoing:   "#28a745",
	StatusFull:      "#ffc107",
	StatusCompleted: mutedColor,
}

var categoryIcons = map[string]string{
	"tree-planting": "🌳",
	"cleanup":       "🧹",
	"education":     "📚",
	"workshop":      "🔧",
	"fundraiser":    "💰",
	"other":         "🌱",
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Policy decides which events show, in what order, and how each is labelled.
// Date and time are combined in the site time zone and compared with the
// clock at every pass.
type Policy struct {
	loc *time.Location
	now func() time.Time
}

func NewPolicy(loc *time.Location, now func() time.Time) *Policy {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Policy{loc: loc, now: now}
}

// Now reads the policy clock.
func (p *Policy) Now() time.Time {
	return p.now()
}

// When combines the event date and 24-hour time in the site time zone.
func (p *Policy) When(e Event) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, e.Date, p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", e.Date, err)
	}
	if !clockPattern.MatchString(e.Time) {
		return time.Time{}, fmt.Errorf("invalid time %q", e.Time)
	}
	clock, err := time.Parse(TimeLayout, e.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", e.Time, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, p.loc), nil
}

// IsPast reports whether the event starts strictly before now.
func (p *Policy) IsPast(e Event, now time.Time) (bool, error) {
	when, err := p.When(e)
	if err != nil {
		return false, err
	}
	return when.Before(now), nil
}

// Order drops cancelled events, puts upcoming ones before past ones (each
// bucket ascending by start), caps the list at MaxEvents and labels every
// survivor. Events with an unreadable date or time are skipped.
func (p *Policy) Order(events []Event) []View {
	now := p.now()

	views := make([]View, 0, len(events))
	for _, e := range events {
		if e.Status == StatusCancelled {
			continue
		}
		when, err := p.When(e)
		if err != nil {
			log.Printf("⚠️ Skipping event %q: %v", e.ID, err)
			continue
		}
		views = append(views, p.label(e, when, now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.IsPast != b.IsPast {
			return !a.IsPast
		}
		return a.When.Before(b.When)
	})

	if len(views) > MaxEvents {
		views = views[:MaxEvents]
	}
	return views
}

// Describe labels a single event against now.
func (p *Policy) Describe(e Event, now time.Time) (View, error) {
	when, err := p.When(e)
	if err != nil {
		return View{}, err
	}
	return p.label(e, when, now), nil
}

func (p *Policy) label(e Event, when, now time.Time) View {
	upper := cases.Upper(language.English)

	v := View{
		Event:       e,
		When:        when,
		IsPast:      when.Before(now),
		DisplayDate: when.Format("Mon, Jan 2, 2006"),
	}

	switch {
	case v.IsPast:
		v.EffectiveStatus = StatusCompleted
		v.StatusLabel = pastLabel
		v.StatusColor = mutedColor
		v.ActionLabel = endedLabel
		v.ActionDisabled = true
	default:
		v.EffectiveStatus = e.Status
		if v.EffectiveStatus == "" {
			v.EffectiveStatus = StatusUpcoming
		}
		v.StatusLabel = upper.String(v.EffectiveStatus)
		v.StatusColor = mutedColor
		if c, ok := statusColors[v.EffectiveStatus]; ok {
			v.StatusColor = c
		}
		v.ActionLabel = registerNow
		if v.EffectiveStatus == StatusFull {
			v.ActionLabel = waitlist
		}
	}

	v.CategoryIcon = defaultIcon
	if icon, ok := categoryIcons[e.Category]; ok {
		v.CategoryIcon = icon
	}
	v.CategoryLabel = upper.String(strings.Replace(e.Category, "-", " ", 1))

	return v
}
