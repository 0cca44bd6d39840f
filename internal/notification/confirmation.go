package notification

import (
	"fmt"
	"strings"

	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/submission"
)

// Confirmation is the email owed to a submitter.
type Confirmation struct {
	To      string
	Subject string
	Message Message
}

// BuildConfirmation returns the confirmation for a saved submission, or
// false when the collection gets none or the entry has no email.
func BuildConfirmation(evt submission.SavedEvent) (*Confirmation, bool) {
	email := strings.TrimSpace(content.Text(evt.Entry["email"]))
	if !submission.ValidEmail(email) {
		return nil, false
	}
	name := strings.TrimSpace(content.Text(evt.Entry["name"]))
	if name == "" {
		name = "friend"
	}

	switch evt.Collection {
	case submission.EventRegistrations:
		event := content.Text(evt.Entry["eventName"])
		lines := []string{fmt.Sprintf("You're registered for %s.", event)}
		if when := content.Text(evt.Entry["eventDate"]); when != "" {
			lines = append(lines, "When: "+when)
		}
		if where := content.Text(evt.Entry["eventLocation"]); where != "" {
			lines = append(lines, "Where: "+where)
		}
		if reg := content.Text(evt.Entry["registrationId"]); reg != "" {
			lines = append(lines, "Your registration number is "+reg+".")
		}
		return &Confirmation{
			To:      email,
			Subject: "Registration confirmed: " + event,
			Message: Message{Heading: "See you there!", Name: name, Lines: lines},
		}, true

	case submission.ContactSubmissions:
		return &Confirmation{
			To:      email,
			Subject: "We received your message",
			Message: Message{
				Heading: "Thanks for reaching out",
				Name:    name,
				Lines:   []string{submission.SuccessMessage(evt.Collection)},
			},
		}, true
	}
	return nil, false
}
