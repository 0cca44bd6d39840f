package event

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/submission"
)

var (
	ErrRegistrationClosed = errors.New("Registration is closed for past events")
	ErrEventCancelled     = errors.New("This event has been cancelled")
	ErrInvalidSchedule    = errors.New("event has an invalid date or time")
)

// Saver stores a registration as a submission.
type Saver interface {
	Save(ctx context.Context, c submission.Collection, fields map[string]any, meta submission.Meta) (*submission.Result, error)
}

type Service struct {
	Repo        *Repository
	Policy      *Policy
	Submissions Saver
	AuditSvc    auditlog.Service
}

func NewService(r *Repository, policy *Policy, submissions Saver, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, Policy: policy, Submissions: submissions, AuditSvc: auditSvc}
}

// ===========================
// 📅 Events shown on the landing page, in display order
func (s *Service) ListEvents(ctx context.Context) ([]View, error) {
	events, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.Policy.Order(events), nil
}

// ===========================
// 🔍 One event, labelled against the current time
func (s *Service) GetEvent(ctx context.Context, id string) (*View, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.Policy.Describe(*e, s.Policy.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return &v, nil
}

// ===========================
// 🎟 Register for an event. The same past-event rule as the page applies,
// evaluated at the time of the request.
func (s *Service) Register(ctx context.Context, id string, req RegisterRequest, meta submission.Meta) (*submission.Result, error) {
	v, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusCancelled {
		return nil, ErrEventCancelled
	}
	if v.IsPast {
		return nil, ErrRegistrationClosed
	}

	fields := map[string]any{
		"name":             req.Name,
		"email":            req.Email,
		"phone":            req.Phone,
		"participants":     req.Participants,
		"message":          req.Message,
		"organization":     req.Organization,
		"accessibility":    req.Accessibility,
		"eventId":          v.ID,
		"eventName":        v.Title,
		"eventDate":        v.Date + " at " + v.Time,
		"eventLocation":    v.Location,
		"registrationDate": s.Policy.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"registrationId":   "REG-" + uuid.NewString(),
	}

	result, err := s.Submissions.Save(ctx, submission.EventRegistrations, fields, meta)
	if err != nil {
		return nil, err
	}

	if s.AuditSvc != nil {
		details := map[string]interface{}{"event_id": v.ID, "registration_id": fields["registrationId"]}
		if err := s.AuditSvc.LogAction(ctx, auditlog.ActorPublic, string(submission.EventRegistrations), auditlog.ActionEventRegistration, details, meta.IP, auditlog.StatusSuccess); err != nil {
			log.Printf("⚠️ Audit log failed for event registration: %v", err)
		}
	}
	return result, nil
}
