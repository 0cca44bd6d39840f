package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/greenroots/greenroots-backend/internal/content"
)

//go:embed templates/index.html
var defaultTemplate []byte

// Document is the server-side landing page. Renderers mutate it under the
// write lock; readers serialize it under the read lock.
type Document struct {
	mu      sync.RWMutex
	root    *html.Node
	binding *Binding
}

// Load parses the page template at path, or the embedded template when
// path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultTemplate))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page template: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse builds a document from an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	d := &Document{root: root, binding: Bind(root)}
	if missing := d.binding.Missing(); len(missing) > 0 {
		log.Printf("⚠️ Page template is missing %d bound elements: %s", len(missing), strings.Join(missing, ", "))
	}
	return d, nil
}

// Apply runs render against the bound nodes under the write lock, unless
// keep reports false once the lock is held, and returns the outer HTML of
// the section element afterwards. The fragment is empty when nothing was
// rendered or the template has no element for the section.
func (d *Document) Apply(section content.Section, keep func() bool, render func(b *Binding)) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if keep != nil && !keep() {
		return "", false
	}
	render(d.binding)

	n := d.binding.Sections[section]
	if n == nil {
		return "", true
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		log.Printf("⚠️ Failed to serialize %s section: %v", section, err)
		return "", true
	}
	return buf.String(), true
}

// Render writes the whole page.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// HTML returns the whole page as a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Section returns the outer HTML of one section element.
func (d *Document) Section(section content.Section) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := d.binding.Sections[section]
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
