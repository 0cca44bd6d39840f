package page

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/greenroots/greenroots-backend/internal/event"
)

const (
	eventsEmptyTitle = "No Events Scheduled"
	eventsEmptyText  = "We're planning exciting environmental events for our community. Stay tuned for updates!"
)

// RenderEvents replaces the events grid with one card per ordered view.
func RenderEvents(b *Binding, views []event.View) {
	if b.EventsGrid == nil {
		return
	}
	cards := make([]*html.Node, 0, len(views))
	for i, v := range views {
		cards = append(cards, eventCard(i, v))
	}
	replaceChildren(b.EventsGrid, cards...)
}

// RenderEventsEmpty shows the placeholder for a section with no events.
func RenderEventsEmpty(b *Binding) {
	replaceChildren(b.EventsGrid,
		el("div", attrs("class", "no-events-message"),
			el("i", attrs("class", "fas fa-calendar-plus")),
			el("h3", nil, text(eventsEmptyTitle)),
			el("p", nil, text(eventsEmptyText)),
		),
	)
}

func eventCard(index int, v event.View) *html.Node {
	var image *html.Node
	if v.Image != "" {
		image = el("div", attrs("class", "event-image"),
			el("img", attrs("src", v.Image, "alt", v.Title)),
		)
	}

	buttonClass := "btn btn-primary"
	if v.IsPast {
		buttonClass = "btn btn-outline-secondary"
	}
	button := el("button", attrs(
		"class", buttonClass,
		"type", "button",
		"data-event-id", v.ID,
		"data-event-title", v.Title,
		"data-event-date", v.Date,
		"data-event-time", v.Time,
	), text(v.ActionLabel))
	if v.ActionDisabled {
		setAttr(button, "disabled", "")
	}

	detail := func(icon, s string) *html.Node {
		return el("p", nil, el("i", attrs("class", "fas "+icon)), text(" "+s))
	}

	return el("div", attrs("class", "event-card", "data-aos", "fade-up", "data-aos-delay", strconv.Itoa(index*100)),
		el("div", attrs("class", "event-content"),
			image,
			el("div", attrs("class", "event-info"),
				el("div", attrs("class", "event-category"), text(v.CategoryIcon+" "+v.CategoryLabel)),
				el("h3", nil, text(v.Title)),
				el("div", attrs("class", "event-details"),
					detail("fa-calendar", v.DisplayDate),
					detail("fa-clock", v.Time),
					detail("fa-map-marker-alt", v.Location),
					detail("fa-users", fmt.Sprintf("%d/%d registered", v.Registrations, v.Capacity)),
				),
				el("p", attrs("class", "event-description"), text(v.Description)),
				el("div", attrs("class", "event-footer"),
					el("span", attrs("class", "event-status", "style", "background: "+v.StatusColor+";"), text(v.StatusLabel)),
					button,
				),
			),
		),
	)
}
