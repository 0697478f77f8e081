// Package audit records circulation events (books added, loans created
// and returned, consistency checks) for later inspection.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/shelfmark/circulation/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated audit events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.Model(&entities.AuditEvent{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the given time and
// returns the number deleted.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return res.RowsAffected, res.Error
}
