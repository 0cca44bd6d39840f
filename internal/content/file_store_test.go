package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeContentFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, "content", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileStoreFormats(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "hero.json", `{"title": "Plant, Protect"}`)
	writeContentFile(t, dir, "impact.yaml", "treesPlanted: 7000\ncities: 16\n")
	writeContentFile(t, dir, "about.md", "---\ntitle: Roots First\n---\n\nEvery street deserves shade.\n")

	store := NewFileStore(dir)
	ctx := context.Background()

	hero, err := store.FetchOnce(ctx, SectionHero.Path())
	if err != nil || hero.Record().String("title") != "Plant, Protect" {
		t.Fatalf("hero = %v, %v", hero.Record(), err)
	}

	impact, err := store.FetchOnce(ctx, SectionImpact.Path())
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := impact.Record().Number("treesPlanted"); !ok || n != 7000 {
		t.Fatalf("treesPlanted = %v, %v", n, ok)
	}

	about, err := store.FetchOnce(ctx, SectionAbout.Path())
	if err != nil {
		t.Fatal(err)
	}
	rec := about.Record()
	if rec.String("title") != "Roots First" || rec.String("description") != "Every street deserves shade." {
		t.Fatalf("about = %#v", rec)
	}
}

func TestFileStoreMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "events.json", `{"broken"`)
	store := NewFileStore(dir)

	snap, err := store.FetchOnce(context.Background(), SectionGallery.Path())
	if err != nil || snap.Exists() {
		t.Fatalf("gallery = %v, %v", snap, err)
	}
	if _, err := store.FetchOnce(context.Background(), SectionEvents.Path()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileStorePublishReplacesVariants(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "hero.yaml", "title: Old\n")
	store := NewFileStore(dir)
	ctx := context.Background()

	if err := store.Publish(ctx, SectionHero.Path(), Record{"title": "New"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "content", "hero.yaml")); !os.IsNotExist(err) {
		t.Fatal("yaml variant should be removed")
	}
	snap, _ := store.FetchOnce(ctx, SectionHero.Path())
	if snap.Record().String("title") != "New" {
		t.Fatalf("title = %q", snap.Record().String("title"))
	}

	if err := store.Publish(ctx, SectionHero.Path(), nil); err != nil {
		t.Fatal(err)
	}
	snap, _ = store.FetchOnce(ctx, SectionHero.Path())
	if snap.Exists() {
		t.Fatal("document should be removed")
	}
}

func TestFileStoreSubscribe(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	got := make(chan Snapshot, 8)
	unsubscribe, err := store.Subscribe(ctx, SectionTestimonials.Path(), func(s Snapshot) { got <- s })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	if initial := waitSnapshot(t, got); initial.Exists() {
		t.Fatal("initial snapshot should be missing")
	}

	if err := store.Publish(ctx, SectionTestimonials.Path(), map[string]any{
		"t1": map[string]any{"name": "Ana"},
	}); err != nil {
		t.Fatal(err)
	}

	// A single write may surface as several filesystem events.
	for {
		snap := waitSnapshot(t, got)
		if len(snap.Children()) == 1 {
			break
		}
	}
}
