package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

// Filter narrows List.
type Filter struct {
	EntityType string
	Action     string
	UserID     uint64
	Page       int
	PageSize   int
}

// GormStore stores audit records through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store writing to db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert implements Store.
func (s *GormStore) Insert(ctx context.Context, rec *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// List returns one page of records matching f, newest first, and the total
// number of matches.
func (s *GormStore) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	if f.PageSize <= 0 {
		f.PageSize = 50
	}

	if f.Page <= 0 {
		f.Page = 1
	}

	out := make([]models.AuditLog, 0, f.PageSize)

	err := q.Order("created_at desc").Order("id desc").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	return out, total, nil
}
