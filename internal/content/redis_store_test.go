package content

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreFetchMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	snap, err := store.FetchOnce(context.Background(), SectionHero.Path())
	if err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}
	if snap.Exists() {
		t.Fatal("expected missing snapshot")
	}
}

func TestRedisStorePublishAndFetch(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Publish(ctx, SectionHero.Path(), Record{"title": "Seed, Sprout"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !mr.Exists("content/hero") {
		t.Fatal("document key not written")
	}

	snap, err := store.FetchOnce(ctx, SectionHero.Path())
	if err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}
	if got := snap.Record().String("title"); got != "Seed, Sprout" {
		t.Fatalf("title = %q", got)
	}

	if err := store.Publish(ctx, SectionHero.Path(), nil); err != nil {
		t.Fatalf("Publish(nil): %v", err)
	}
	snap, _ = store.FetchOnce(ctx, SectionHero.Path())
	if snap.Exists() {
		t.Fatal("document should be deleted")
	}
}

func TestRedisStoreFetchCorruptDocument(t *testing.T) {
	store, mr := newTestRedisStore(t)
	if err := mr.Set("content/about", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FetchOnce(context.Background(), SectionAbout.Path()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRedisStoreSubscribe(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Publish(ctx, SectionImpact.Path(), Record{"cities": 16}); err != nil {
		t.Fatal(err)
	}

	got := make(chan Snapshot, 4)
	unsubscribe, err := store.Subscribe(ctx, SectionImpact.Path(), func(s Snapshot) { got <- s })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	initial := waitSnapshot(t, got)
	if n, _ := initial.Record().Number("cities"); n != 16 {
		t.Fatalf("initial cities = %v", n)
	}

	if err := store.Publish(ctx, SectionImpact.Path(), Record{"cities": 17}); err != nil {
		t.Fatal(err)
	}
	changed := waitSnapshot(t, got)
	if n, _ := changed.Record().Number("cities"); n != 17 {
		t.Fatalf("changed cities = %v", n)
	}

	if err := store.Publish(ctx, SectionImpact.Path(), nil); err != nil {
		t.Fatal(err)
	}
	if deleted := waitSnapshot(t, got); deleted.Exists() {
		t.Fatal("deletion should notify with a missing snapshot")
	}

	unsubscribe()
	unsubscribe()
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for notification")
		return Snapshot{}
	}
}
