package event

import (
	"strings"
	"time"

	"github.com/greenroots/greenroots-backend/internal/content"
)

// Status values an event record may carry upstream.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusFull      = "full"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Date and time layouts of event records
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ============================
// 🔷 Event as stored under content/events
type Event struct {
	Key           string `json:"key"`
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Date          string `json:"date"` // "2006-01-02"
	Time          string `json:"time"` // "15:04"
	Location      string `json:"location"`
	Capacity      int    `json:"capacity"`
	Registrations int    `json:"registrations"`
	Status        string `json:"status"`
	Image         string `json:"image,omitempty"`
}

// ============================
// 🟢 View is an event after the ordering policy ran, with everything a
// card needs to render.
type View struct {
	Event
	When            time.Time `json:"when"`
	IsPast          bool      `json:"isPast"`
	EffectiveStatus string    `json:"effectiveStatus"`
	StatusLabel     string    `json:"statusLabel"`
	StatusColor     string    `json:"statusColor"`
	ActionLabel     string    `json:"actionLabel"`
	ActionDisabled  bool      `json:"actionDisabled"`
	DisplayDate     string    `json:"displayDate"`
	CategoryIcon    string    `json:"categoryIcon"`
	CategoryLabel   string    `json:"categoryLabel"`
}

// ============================
// 🟡 Register Event Request
type RegisterRequest struct {
	Name          string `json:"name" form:"name" binding:"required"`
	Email         string `json:"email" form:"email" binding:"required"`
	Phone         string `json:"phone" form:"phone"`
	Participants  string `json:"participants" form:"participants"`
	Message       string `json:"message" form:"message"`
	Organization  string `json:"organization" form:"organization"`
	Accessibility string `json:"accessibility" form:"accessibility"`
}

// FromRecord decodes one child of content/events. The record id falls back
// to its key.
func FromRecord(key string, r content.Record) Event {
	e := Event{
		Key:         key,
		ID:          r.String("id"),
		Title:       r.String("title"),
		Description: r.String("description"),
		Category:    r.String("category"),
		Date:        strings.TrimSpace(r.String("date")),
		Time:        strings.TrimSpace(r.String("time")),
		Location:    r.String("location"),
		Status:      strings.ToLower(strings.TrimSpace(r.String("status"))),
		Image:       r.String("image"),
	}
	if e.ID == "" {
		e.ID = key
	}
	if n, ok := r.Number("capacity"); ok {
		e.Capacity = int(n)
	}
	if n, ok := r.Number("registrations"); ok {
		e.Registrations = int(n)
	}
	return e
}

// FromSnapshot decodes every event under content/events.
func FromSnapshot(snap content.Snapshot) []Event {
	children := snap.Children()
	events := make([]Event, 0, len(children))
	for _, c := range children {
		events = append(events, FromRecord(c.Key, c.Value))
	}
	return events
}
