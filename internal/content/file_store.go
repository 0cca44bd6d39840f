package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Extensions probed for a document, in priority order.
var fileExtensions = []string{".json", ".yaml", ".yml", ".md"}

// FileStore serves content documents from a directory tree, mostly for local
// development: content/hero is read from <dir>/content/hero.json (or .yaml,
// .yml, .md). Markdown files carry the record as front matter and the body
// becomes its description.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) base(path string) string {
	return filepath.Join(s.dir, filepath.FromSlash(path))
}

func (s *FileStore) FetchOnce(_ context.Context, path string) (Snapshot, error) {
	base := s.base(path)
	for _, ext := range fileExtensions {
		raw, err := os.ReadFile(base + ext)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("read %s%s: %w", path, ext, err)
		}
		v, err := decodeFile(ext, raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s%s: %w", path, ext, err)
		}
		return NewSnapshot(v), nil
	}
	return Missing(), nil
}

func decodeFile(ext string, raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	switch ext {
	case ".json":
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	case ".md":
		rec := map[string]any{}
		body, err := frontmatter.Parse(bytes.NewReader(raw), &rec)
		if err != nil {
			return nil, err
		}
		if text := strings.TrimSpace(string(body)); text != "" {
			rec["description"] = text
		}
		v = rec
	}
	return v, nil
}

func (s *FileStore) Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Unsubscribe, error) {
	base := s.base(path)
	dir := filepath.Dir(base)
	stem := filepath.Base(base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	notify := func() {
		snap, err := s.FetchOnce(ctx, path)
		if err != nil {
			log.Printf("⚠️ reload %s failed: %v", path, err)
			return
		}
		onChange(snap)
	}

	go func() {
		defer watcher.Close()
		notify()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(event.Name)
				if strings.TrimSuffix(name, filepath.Ext(name)) != stem {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					notify()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ watcher error on %s: %v", path, err)
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// Publish writes value as JSON, replacing any other variant of the document.
// A nil value removes the document.
func (s *FileStore) Publish(_ context.Context, path string, value any) error {
	base := s.base(path)
	for _, ext := range fileExtensions[1:] {
		if err := os.Remove(base + ext); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s%s: %w", path, ext, err)
		}
	}

	if value == nil {
		if err := os.Remove(base + ".json"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s.json: %w", path, err)
		}
		return nil
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return err
	}
	return os.WriteFile(base+".json", payload, 0o644)
}
