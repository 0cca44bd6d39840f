package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/greenroots/greenroots-backend/config"
	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/auth"
	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/live"
	"github.com/greenroots/greenroots-backend/internal/page"
	"github.com/greenroots/greenroots-backend/internal/pipeline"
	"github.com/greenroots/greenroots-backend/internal/submission"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := content.NewFileStore(t.TempDir())
	doc, err := page.Load("")
	if err != nil {
		t.Fatalf("page.Load: %v", err)
	}
	policy := event.NewPolicy(time.UTC, time.Now)
	hub := live.NewHub(client, live.DefaultChannel)
	p := pipeline.New(store, doc, pipeline.Options{FetchTimeout: time.Second, Policy: policy, Broadcaster: hub})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(p.Stop)

	auditSvc := auditlog.NewService(auditlog.NewLogRepository())
	submissions := submission.NewService(nil, submission.NewRedisLocalStore(client), nil, auditSvc)
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:5173"}}

	r := gin.New()
	err = Setup(r, cfg, Deps{
		Pipeline:    p,
		Publisher:   store,
		Hub:         hub,
		Submissions: submissions,
		Events:      event.NewService(event.NewRepository(store, time.Second), policy, submissions, auditSvc),
		AuditSvc:    auditSvc,
		AuthSvc:     auth.NewService(cfg),
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return r
}

func TestPublicRoutes(t *testing.T) {
	r := newTestEngine(t)
	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/api/v1/content/hero", "", http.StatusOK},
		{http.MethodGet, "/api/v1/content/footer", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/events", "", http.StatusOK},
		{http.MethodPost, "/api/v1/submissions/contact-submissions", `{"name":"Ana","email":"ana@example.org"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/admin/login", `{"email":"a@b.co","password":"x"}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		if tt.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, w.Code, tt.want, w.Body)
		}
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestEngine(t)
	for _, path := range []string{"/api/v1/admin/submissions", "/api/v1/admin/auditlogs"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestLoginLimitIgnoresForwardedFor(t *testing.T) {
	r := newTestEngine(t)
	limited := false
	for i := 0; i < 25; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("rotating X-Forwarded-For escaped the login rate limit")
	}
}
