package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

type AuditLogFilter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ListAuditLogs returns the most recent entries of a clinic, newest first.
func (r *AuditLogGormRepository) ListAuditLogs(
	ctx context.Context,
	clinicID uuid.UUID,
	f AuditLogFilter,
) ([]models.AuditLog, error) {

	// --------------------------------------------------
	// Query base (sempre protegido por clínica)
	// --------------------------------------------------
	q := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("clinic_id = ?", clinicID)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
