package submission

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/greenroots/greenroots-backend/internal/content"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}

var imageHosts = []string{"imgur.com", "cloudinary.com", "unsplash.com", "pexels.com", "pixabay.com"}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidImageURL accepts absolute URLs whose path names an image file, or
// that point at one of the known image hosts.
func ValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.Contains(path, ext) {
			return true
		}
	}
	for _, host := range imageHosts {
		if strings.Contains(raw, host) {
			return true
		}
	}
	return false
}

func field(fields map[string]any, key string) string {
	return strings.TrimSpace(content.Text(fields[key]))
}

func required(fields map[string]any, keys ...string) error {
	for _, k := range keys {
		if field(fields, k) == "" {
			return &ValidationError{Field: k, Message: k + " is required"}
		}
	}
	return nil
}

// Validate checks the fields of a submission and normalizes the ones the
// site trims. fields is modified in place.
func Validate(c Collection, fields map[string]any) error {
	switch c {
	case ContactSubmissions, EventRegistrations, SchoolRegistrations, EventPlanning:
		if err := required(fields, "name", "email"); err != nil {
			return err
		}
	case StorySubmissions, WorkSubmissions:
		if err := required(fields, "name"); err != nil {
			return err
		}
	default:
		return ErrUnknownCollection
	}

	if email := field(fields, "email"); email != "" {
		if !ValidEmail(email) {
			return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
		}
		fields["email"] = email
	}

	image := field(fields, "imageUrl")
	switch {
	case c == WorkSubmissions && image == "":
		return &ValidationError{Field: "imageUrl", Message: "Project image URL is required"}
	case image != "" && (c == WorkSubmissions || c == StorySubmissions):
		if !ValidImageURL(image) {
			return &ValidationError{Field: "imageUrl", Message: "Please enter a valid image URL (jpg, jpeg, png, gif, webp)"}
		}
		fields["imageUrl"] = image
	}
	return nil
}
