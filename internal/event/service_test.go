package event

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/submission"
)

type savedRegistration struct {
	collection submission.Collection
	fields     map[string]any
}

type fakeSaver struct {
	saved []savedRegistration
}

func (f *fakeSaver) Save(_ context.Context, c submission.Collection, fields map[string]any, _ submission.Meta) (*submission.Result, error) {
	f.saved = append(f.saved, savedRegistration{c, fields})
	return &submission.Result{ID: "sub-1", Stored: submission.StoredRemote}, nil
}

func newTestService(t *testing.T) (*Service, *fakeSaver) {
	t.Helper()
	store := content.NewFileStore(t.TempDir())
	err := store.Publish(context.Background(), content.SectionEvents.Path(), map[string]any{
		"-Na": map[string]any{"id": "planting", "title": "Summer Planting", "date": "2025-06-20", "time": "08:00", "location": "Riverside Park", "capacity": 30},
		"-Nb": map[string]any{"id": "cleanup", "title": "Beach Cleanup", "date": "2025-06-14", "time": "09:00", "location": "North Beach"},
		"-Nc": map[string]any{"id": "walk", "title": "Tree Walk", "date": "2025-06-21", "time": "10:00", "status": "cancelled"},
		"-Nd": map[string]any{"title": "Keyless Workshop", "date": "2025-07-01", "time": "7pm"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	saver := &fakeSaver{}
	return NewService(NewRepository(store, time.Second), testPolicy(), saver, nil), saver
}

func TestServiceListEvents(t *testing.T) {
	svc, _ := newTestService(t)
	views, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	// Cancelled and malformed events are left out; upcoming comes first.
	if got := ids(views); len(got) != 2 || got[0] != "planting" || got[1] != "cleanup" {
		t.Errorf("ids = %v", got)
	}
}

func TestServiceRegister(t *testing.T) {
	svc, saver := newTestService(t)
	req := RegisterRequest{Name: "Ana", Email: "ana@example.org", Participants: "2"}

	res, err := svc.Register(context.Background(), "planting", req, submission.Meta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.ID != "sub-1" {
		t.Errorf("result = %+v", res)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("saved = %d", len(saver.saved))
	}
	got := saver.saved[0]
	if got.collection != submission.EventRegistrations {
		t.Errorf("collection = %s", got.collection)
	}
	if got.fields["eventDate"] != "2025-06-20 at 08:00" || got.fields["eventName"] != "Summer Planting" || got.fields["eventLocation"] != "Riverside Park" {
		t.Errorf("fields = %v", got.fields)
	}
	if id, _ := got.fields["registrationId"].(string); !strings.HasPrefix(id, "REG-") {
		t.Errorf("registrationId = %v", got.fields["registrationId"])
	}
}

func TestServiceRegisterRejects(t *testing.T) {
	svc, saver := newTestService(t)
	tests := []struct {
		id   string
		want error
	}{
		{"cleanup", ErrRegistrationClosed},
		{"walk", ErrEventCancelled},
		{"missing", ErrEventNotFound},
		{"-Nd", ErrInvalidSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.id, RegisterRequest{Name: "Ana", Email: "ana@example.org"}, submission.Meta{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if len(saver.saved) != 0 {
		t.Errorf("nothing should be saved, got %d", len(saver.saved))
	}
}

func TestHandlerRegisterStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/events", h.ListEvents)
	r.POST("/events/:id/register", h.Register)

	tests := []struct {
		path string
		body string
		want int
	}{
		{"/events/planting/register", `{"name":"Ana","email":"ana@example.org"}`, http.StatusCreated},
		{"/events/cleanup/register", `{"name":"Ana","email":"ana@example.org"}`, http.StatusConflict},
		{"/events/missing/register", `{"name":"Ana","email":"ana@example.org"}`, http.StatusNotFound},
		{"/events/planting/register", `{"name":"Ana"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("POST %s = %d, want %d (%s)", tt.path, w.Code, tt.want, w.Body)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Summer Planting") {
		t.Errorf("GET /events = %d %s", w.Code, w.Body)
	}
}

// stuckStore never answers and ignores its context.
type stuckStore struct {
	release chan struct{}
}

func (s stuckStore) FetchOnce(context.Context, string) (content.Snapshot, error) {
	<-s.release
	return content.Missing(), nil
}

func (s stuckStore) Subscribe(context.Context, string, func(content.Snapshot)) (content.Unsubscribe, error) {
	return func() {}, nil
}

func TestListEventsTimesOutOnStuckStore(t *testing.T) {
	store := stuckStore{release: make(chan struct{})}
	t.Cleanup(func() { close(store.release) })
	svc := NewService(NewRepository(store, 20*time.Millisecond), testPolicy(), &fakeSaver{}, nil)

	start := time.Now()
	_, err := svc.ListEvents(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ListEvents took %v", elapsed)
	}

	_, err = svc.Register(context.Background(), "planting", RegisterRequest{Name: "Ana", Email: "ana@example.org"}, submission.Meta{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Register err = %v", err)
	}
}
