package auditlog

import (
	"context"
	"log"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Migrate creates or updates the audit_logs table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AuditLog{})
}

// Create inserts a new audit log entry
func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByFilter retrieves audit logs with filtering and pagination
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	var logs []AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&AuditLog{})

	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if filter.Target != "" {
		query = query.Where("target = ?", filter.Target)
	}
	if filter.Action != "" {
		query = query.Where("action ILIKE ?", "%"+filter.Action+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// logRepository writes entries to the process log when no database is
// configured. Nothing is kept, so queries come back empty.
type logRepository struct{}

func NewLogRepository() Repository {
	return logRepository{}
}

func (logRepository) Create(_ context.Context, entry *AuditLog) error {
	log.Printf("📝 audit %s %s by %s on %s from %s: %s", entry.Status, entry.Action, entry.Actor, entry.Target, entry.IPAddress, string(entry.Details))
	return nil
}

func (logRepository) GetByFilter(context.Context, AuditLogFilter) ([]AuditLog, int64, error) {
	return []AuditLog{}, 0, nil
}
