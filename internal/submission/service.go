package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
)

var ErrNothingToExport = errors.New("no submissions to export")

type Service struct {
	remote    RemoteWriter
	local     LocalStore
	publisher Publisher
	audit     auditlog.Service
	exporter  *Exporter

	now   func() time.Time
	newID func() string
}

// NewService wires the submission flow. remote, publisher and audit may be
// nil; local may not.
func NewService(remote RemoteWriter, local LocalStore, publisher Publisher, audit auditlog.Service) *Service {
	return &Service{
		remote:    remote,
		local:     local,
		publisher: publisher,
		audit:     audit,
		exporter:  NewExporter(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Save validates and stores a form submission. The remote store is tried
// first; whatever happens there, a copy lands in the local store, so a
// remote failure is never the caller's error. Only a local failure after a
// remote failure is returned.
func (s *Service) Save(ctx context.Context, c Collection, fields map[string]any, meta Meta) (*Result, error) {
	if _, err := ParseCollection(string(c)); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	if err := Validate(c, fields); err != nil {
		return nil, err
	}

	now := s.now()
	entry := s.enrich(fields, meta, now)

	stored := StoredRemote
	backup := entry
	if s.remote == nil {
		stored = StoredLocal
	} else if key, err := s.remote.Push(ctx, c, entry); err != nil {
		log.Printf("⚠️ Remote save of %s failed, keeping it locally: %v", c, err)
		stored = StoredLocal
		backup = Entry(fields)
	} else {
		log.Printf("✅ Saved %s submission %s (key %s)", c, entry["id"], key)
	}

	local := s.localCopy(backup, now)
	if err := s.local.Append(ctx, c, local); err != nil {
		if stored == StoredLocal {
			s.logAudit(ctx, c, auditlog.ActionSubmissionFallback, meta, auditlog.StatusFailure, map[string]interface{}{"error": err.Error()})
			return nil, fmt.Errorf("store %s submission locally: %w", c, err)
		}
		log.Printf("⚠️ Local backup of %s submission failed: %v", c, err)
	}

	result := &Result{Stored: stored, Message: SuccessMessage(c)}
	saved := entry
	if stored == StoredLocal {
		saved = local
	}
	result.ID = fmt.Sprint(saved["id"])

	action := auditlog.ActionSubmissionSaved
	if stored == StoredLocal {
		action = auditlog.ActionSubmissionFallback
	}
	s.logAudit(ctx, c, action, meta, auditlog.StatusSuccess, map[string]interface{}{"id": result.ID})

	if s.publisher != nil {
		evt := SavedEvent{ID: result.ID, Collection: c, Stored: stored, Entry: saved, SavedAt: now}
		if err := s.publisher.PublishSaved(ctx, evt); err != nil {
			log.Printf("⚠️ Failed to publish %s submission %s: %v", c, result.ID, err)
		}
	}
	return result, nil
}

// enrich adds the metadata every remote submission carries.
func (s *Service) enrich(fields map[string]any, meta Meta, now time.Time) Entry {
	entry := make(Entry, len(fields)+5)
	for k, v := range fields {
		entry[k] = v
	}
	referrer := meta.Referrer
	if referrer == "" {
		referrer = "Direct"
	}
	entry["timestamp"] = now.UnixMilli()
	entry["submissionDate"] = isoTime(now)
	entry["userAgent"] = meta.UserAgent
	entry["referrer"] = referrer
	entry["id"] = s.newID()
	return entry
}

// localCopy is what goes into the local list: its own id, an ISO
// timestamp and the backup marker.
func (s *Service) localCopy(base Entry, now time.Time) Entry {
	out := make(Entry, len(base)+3)
	for k, v := range base {
		out[k] = v
	}
	out["id"] = s.newID()
	out["timestamp"] = isoTime(now)
	out["localStorageBackup"] = true
	return out
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (s *Service) logAudit(ctx context.Context, c Collection, action string, meta Meta, status string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAction(ctx, auditlog.ActorPublic, string(c), action, details, meta.IP, status); err != nil {
		log.Printf("⚠️ Audit log failed for %s: %v", action, err)
	}
}

// Summaries lists the local entries of every collection.
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	out := make([]Summary, 0, len(Collections))
	for _, c := range Collections {
		entries, err := s.local.List(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Collection: c, Count: len(entries), Entries: entries})
	}
	return out, nil
}

// ClearAll removes every local collection.
func (s *Service) ClearAll(ctx context.Context, actor, ip string) error {
	for _, c := range Collections {
		if err := s.local.Clear(ctx, c); err != nil {
			return fmt.Errorf("clear %s: %w", c, err)
		}
	}
	if s.audit != nil {
		if err := s.audit.LogAction(ctx, actor, "", auditlog.ActionSubmissionsCleared, nil, ip, auditlog.StatusSuccess); err != nil {
			log.Printf("⚠️ Audit log failed for %s: %v", auditlog.ActionSubmissionsCleared, err)
		}
	}
	return nil
}

// Export renders the local entries of one collection as a file.
func (s *Service) Export(ctx context.Context, c Collection, format string) ([]byte, string, string, error) {
	entries, err := s.local.List(ctx, c)
	if err != nil {
		return nil, "", "", err
	}
	if len(entries) == 0 {
		return nil, "", "", ErrNothingToExport
	}
	return s.exporter.Export(c, format, entries, s.now())
}
