package content

import (
	"context"
	"fmt"
	"sort"
	"strconv"
)

// Section names one independently loaded part of the landing page.
type Section string

const (
	SectionHero         Section = "hero"
	SectionAbout        Section = "about"
	SectionImpact       Section = "impact"
	SectionGallery      Section = "gallery"
	SectionTestimonials Section = "testimonials"
	SectionEvents       Section = "events"
)

// Sections lists every section in load order.
var Sections = []Section{
	SectionHero,
	SectionAbout,
	SectionImpact,
	SectionTestimonials,
	SectionEvents,
	SectionGallery,
}

// Path is the store path holding the section document.
func (s Section) Path() string {
	return "content/" + string(s)
}

// ParseSection resolves a section by name.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown content section %q", name)
}

// Record is a flat key/value content document as stored upstream.
type Record map[string]any

// String returns the value at key as display text. Missing and null values
// are empty; integral numbers print without a fraction.
func (r Record) String(key string) string {
	return Text(r[key])
}

// Number returns the value at key as a float and whether it was numeric.
func (r Record) Number(key string) (float64, bool) {
	return Number(r[key])
}

// Text converts a decoded JSON/YAML scalar to display text.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Number converts a decoded scalar to a float. Numeric strings count.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

// Snapshot is the result of reading one store path.
type Snapshot struct {
	exists bool
	value  any
}

// NewSnapshot wraps a decoded value; a nil value means the path is empty.
func NewSnapshot(v any) Snapshot {
	return Snapshot{exists: v != nil, value: v}
}

// Missing is the snapshot of an empty path.
func Missing() Snapshot {
	return Snapshot{}
}

func (s Snapshot) Exists() bool { return s.exists }
func (s Snapshot) Value() any   { return s.value }

// Record returns the snapshot value as a flat record, nil when it is not an object.
func (s Snapshot) Record() Record {
	return asRecord(s.value)
}

// Child is one entry of a record-of-records.
type Child struct {
	Key   string
	Value Record
}

// Children returns the object entries of a record-of-records ordered by key.
// Arrays (how the Realtime Database returns dense integer keys) keep their
// index order. Non-object entries are skipped.
func (s Snapshot) Children() []Child {
	var out []Child
	switch v := s.value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if rec := asRecord(v[k]); rec != nil {
				out = append(out, Child{Key: k, Value: rec})
			}
		}
	case Record:
		return NewSnapshot(map[string]any(v)).Children()
	case []any:
		for i, item := range v {
			if rec := asRecord(item); rec != nil {
				out = append(out, Child{Key: strconv.Itoa(i), Value: rec})
			}
		}
	}
	return out
}

func asRecord(v any) Record {
	switch t := v.(type) {
	case map[string]any:
		return Record(t)
	case Record:
		return t
	}
	return nil
}

// Unsubscribe detaches a listener. Calling it more than once is safe.
type Unsubscribe func()

// Store is the remote content source the pipeline reads from.
type Store interface {
	// FetchOnce reads the current value at path.
	FetchOnce(ctx context.Context, path string) (Snapshot, error)
	// Subscribe invokes onChange once on attach and again after every change
	// at path, until the returned Unsubscribe is called or ctx ends.
	Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Unsubscribe, error)
}

// Publisher is implemented by stores that accept writes from the admin
// content editor. A nil value deletes the document.
type Publisher interface {
	Publish(ctx context.Context, path string, value any) error
}
