package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
)

type fakeRemote struct {
	err    error
	pushed []Entry
}

func (f *fakeRemote) Push(_ context.Context, _ Collection, entry Entry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.pushed = append(f.pushed, entry)
	return fmt.Sprintf("-K%d", len(f.pushed)), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []SavedEvent
}

func (f *fakePublisher) PublishSaved(_ context.Context, evt SavedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) LogAction(_ context.Context, _, _, action string, _ map[string]interface{}, _ string, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return &auditlog.PaginatedAuditLogs{}, nil
}

type failingLocal struct{}

func (failingLocal) Append(context.Context, Collection, Entry) error {
	return errors.New("disk full")
}
func (failingLocal) List(context.Context, Collection) ([]Entry, error) { return nil, nil }
func (failingLocal) Clear(context.Context, Collection) error           { return nil }

func newLocalStore(t *testing.T) *RedisLocalStore {
	local, _ := newLocalStoreWithRedis(t)
	return local
}

func newLocalStoreWithRedis(t *testing.T) (*RedisLocalStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocalStore(client), mr
}

var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func newTestService(remote RemoteWriter, local LocalStore, pub Publisher, audit auditlog.Service) *Service {
	s := NewService(remote, local, pub, audit)
	s.now = func() time.Time { return testNow }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func contactFields() map[string]any {
	return map[string]any{"name": "Ana", "email": "ana@example.org", "message": "Hi"}
}

func TestSaveRemoteSuccess(t *testing.T) {
	remote := &fakeRemote{}
	local := newLocalStore(t)
	pub := &fakePublisher{}
	audit := &fakeAudit{}
	svc := newTestService(remote, local, pub, audit)
	ctx := context.Background()

	res, err := svc.Save(ctx, ContactSubmissions, contactFields(), Meta{UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Stored != StoredRemote || res.ID != "id-1" || res.Message == "" {
		t.Errorf("result = %+v", res)
	}

	if len(remote.pushed) != 1 {
		t.Fatalf("pushed = %d", len(remote.pushed))
	}
	pushed := remote.pushed[0]
	if pushed["timestamp"] != testNow.UnixMilli() || pushed["submissionDate"] != "2025-06-15T12:30:00.000Z" {
		t.Errorf("timestamps = %v %v", pushed["timestamp"], pushed["submissionDate"])
	}
	if pushed["referrer"] != "Direct" || pushed["userAgent"] != "test-agent" {
		t.Errorf("meta = %v %v", pushed["referrer"], pushed["userAgent"])
	}

	backup, err := local.List(ctx, ContactSubmissions)
	if err != nil || len(backup) != 1 {
		t.Fatalf("backup = %v, %v", backup, err)
	}
	if backup[0]["localStorageBackup"] != true || backup[0]["id"] != "id-2" || backup[0]["referrer"] != "Direct" {
		t.Errorf("backup entry = %v", backup[0])
	}

	if len(pub.events) != 1 || pub.events[0].Collection != ContactSubmissions || pub.events[0].ID != "id-1" {
		t.Errorf("events = %+v", pub.events)
	}
	if len(audit.actions) != 1 || audit.actions[0] != auditlog.ActionSubmissionSaved {
		t.Errorf("audit = %v", audit.actions)
	}
}

func TestSaveRemoteFailureFallsBackToLocal(t *testing.T) {
	local := newLocalStore(t)
	audit := &fakeAudit{}
	svc := newTestService(&fakeRemote{err: errors.New("permission denied")}, local, nil, audit)
	ctx := context.Background()

	res, err := svc.Save(ctx, ContactSubmissions, contactFields(), Meta{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Stored != StoredLocal {
		t.Errorf("stored = %s", res.Stored)
	}

	entries, _ := local.List(ctx, ContactSubmissions)
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	got := entries[0]
	// The raw form fields are kept, without the remote metadata.
	if got["name"] != "Ana" || got["localStorageBackup"] != true {
		t.Errorf("entry = %v", got)
	}
	if _, ok := got["referrer"]; ok {
		t.Errorf("fallback entry should not carry remote metadata: %v", got)
	}
	if res.ID != got["id"] {
		t.Errorf("result id %s, stored id %v", res.ID, got["id"])
	}
	if audit.actions[0] != auditlog.ActionSubmissionFallback {
		t.Errorf("audit = %v", audit.actions)
	}
}

func TestSaveWithoutRemote(t *testing.T) {
	local := newLocalStore(t)
	svc := newTestService(nil, local, nil, nil)

	res, err := svc.Save(context.Background(), StorySubmissions, map[string]any{"name": "Ana", "title": "Park"}, Meta{})
	if err != nil || res.Stored != StoredLocal {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
}

func TestSaveLocalFailure(t *testing.T) {
	// Remote success hides a local failure.
	svc := newTestService(&fakeRemote{}, failingLocal{}, nil, nil)
	if _, err := svc.Save(context.Background(), ContactSubmissions, contactFields(), Meta{}); err != nil {
		t.Errorf("remote success should not fail: %v", err)
	}

	svc = newTestService(&fakeRemote{err: errors.New("down")}, failingLocal{}, nil, nil)
	if _, err := svc.Save(context.Background(), ContactSubmissions, contactFields(), Meta{}); err == nil {
		t.Error("both stores failing should be an error")
	}
}

func TestSaveRejects(t *testing.T) {
	svc := newTestService(&fakeRemote{}, newLocalStore(t), nil, nil)
	ctx := context.Background()

	if _, err := svc.Save(ctx, Collection("newsletter"), contactFields(), Meta{}); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("err = %v", err)
	}
	var verr *ValidationError
	if _, err := svc.Save(ctx, WorkSubmissions, map[string]any{"name": "Ana"}, Meta{}); !errors.As(err, &verr) {
		t.Errorf("err = %v", err)
	}
}

func TestLocalStoreConcurrentAppends(t *testing.T) {
	local := newLocalStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := local.Append(ctx, EventPlanning, Entry{"n": float64(i)}); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := local.List(ctx, EventPlanning)
	if err != nil || len(entries) != 4 {
		t.Errorf("entries = %d, %v", len(entries), err)
	}
}

func TestLocalStoreKeepsUnreadableList(t *testing.T) {
	local, mr := newLocalStoreWithRedis(t)
	ctx := context.Background()
	key := ContactSubmissions.LocalKey()
	truncated := `[{"id":"a","name":"Ann"},{"id":"b","name":"Bo"`
	if err := mr.Set(key, truncated); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := local.Append(ctx, ContactSubmissions, Entry{"id": "c", "name": "Cy"})
	if !errors.Is(err, ErrCorruptLocalList) {
		t.Fatalf("Append err = %v", err)
	}
	if got, _ := mr.Get(key); got != truncated {
		t.Errorf("stored list was rewritten: %s", got)
	}

	entries, err := local.List(ctx, ContactSubmissions)
	if err != nil || len(entries) != 0 {
		t.Errorf("List = %v, %v", entries, err)
	}

	// Without a remote copy the caller has to hear about it.
	svc := newTestService(errRemote(), local, nil, nil)
	if _, err := svc.Save(ctx, ContactSubmissions, contactFields(), Meta{}); !errors.Is(err, ErrCorruptLocalList) {
		t.Errorf("Save err = %v", err)
	}
	if got, _ := mr.Get(key); got != truncated {
		t.Errorf("stored list was rewritten by Save: %s", got)
	}
}

func errRemote() *fakeRemote {
	return &fakeRemote{err: errors.New("permission denied")}
}

func TestSummariesAndClearAll(t *testing.T) {
	local := newLocalStore(t)
	audit := &fakeAudit{}
	svc := newTestService(nil, local, nil, audit)
	ctx := context.Background()

	_, _ = svc.Save(ctx, ContactSubmissions, contactFields(), Meta{})
	_, _ = svc.Save(ctx, ContactSubmissions, contactFields(), Meta{})

	summaries, err := svc.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != len(Collections) || summaries[0].Collection != EventRegistrations {
		t.Fatalf("summaries = %+v", summaries)
	}
	for _, s := range summaries {
		want := 0
		if s.Collection == ContactSubmissions {
			want = 2
		}
		if s.Count != want {
			t.Errorf("%s count = %d, want %d", s.Collection, s.Count, want)
		}
	}

	if err := svc.ClearAll(ctx, "admin@greenroots.org", "127.0.0.1"); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	entries, _ := local.List(ctx, ContactSubmissions)
	if len(entries) != 0 {
		t.Errorf("entries after clear = %d", len(entries))
	}
	if audit.actions[len(audit.actions)-1] != auditlog.ActionSubmissionsCleared {
		t.Errorf("audit = %v", audit.actions)
	}
}

func TestExportEmpty(t *testing.T) {
	svc := newTestService(nil, newLocalStore(t), nil, nil)
	if _, _, _, err := svc.Export(context.Background(), ContactSubmissions, FormatCSV); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("err = %v", err)
	}
}

func TestExportCSVFromService(t *testing.T) {
	svc := newTestService(nil, newLocalStore(t), nil, nil)
	ctx := context.Background()
	_, _ = svc.Save(ctx, ContactSubmissions, contactFields(), Meta{})

	data, name, mime, err := svc.Export(ctx, ContactSubmissions, FormatCSV)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "greenroots_contact-submissions_2025-06-15.csv" || mime != "text/csv" {
		t.Errorf("name = %s, mime = %s", name, mime)
	}
	if !strings.Contains(string(data), `"ana@example.org"`) {
		t.Errorf("csv = %s", data)
	}
}
