package submission

import (
	"errors"
	"fmt"
)

// Collection names one kind of form submission.
type Collection string

const (
	EventRegistrations  Collection = "event-registrations"
	SchoolRegistrations Collection = "school-registrations"
	EventPlanning       Collection = "event-planning"
	ContactSubmissions  Collection = "contact-submissions"
	StorySubmissions    Collection = "story-submissions"
	WorkSubmissions     Collection = "work-submissions"
)

// Collections lists every collection in admin display order.
var Collections = []Collection{
	EventRegistrations,
	SchoolRegistrations,
	EventPlanning,
	ContactSubmissions,
	StorySubmissions,
	WorkSubmissions,
}

// RemotePath is where the collection is appended in the Realtime Database.
func (c Collection) RemotePath() string {
	return "submissions/" + string(c)
}

// LocalKey is the key of the local fallback list.
func (c Collection) LocalKey() string {
	return "greenroots_" + string(c)
}

func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

var ErrUnknownCollection = errors.New("unknown submission collection")

// ValidationError reports a form field the site would reject.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Entry is one submission as stored: the form fields plus metadata.
type Entry map[string]any

// Where a submission ended up.
const (
	StoredRemote = "remote"
	StoredLocal  = "local"
)

// ============================
// 🟢 Result of a submission
type Result struct {
	ID      string `json:"id"`
	Stored  string `json:"stored"`
	Message string `json:"message"`
}

// ============================
// 🟢 Admin summary of one collection
type Summary struct {
	Collection Collection `json:"collection"`
	Count      int        `json:"count"`
	Entries    []Entry    `json:"entries"`
}

// Meta is request metadata recorded with each submission.
type Meta struct {
	UserAgent string
	Referrer  string
	IP        string
}

var successMessages = map[Collection]string{
	EventRegistrations:  "Registration successful! We'll send you a confirmation email shortly.",
	SchoolRegistrations: "School registration received! Our education team will contact you soon.",
	EventPlanning:       "Thank you! Our events team will get back to you about your event.",
	ContactSubmissions:  "Welcome to the GreenRoots community! We'll be in touch soon.",
	StorySubmissions:    "Your story has been shared with the community!",
	WorkSubmissions:     "Your work has been showcased!",
}

// SuccessMessage is the confirmation text shown after a submission.
func SuccessMessage(c Collection) string {
	return successMessages[c]
}
