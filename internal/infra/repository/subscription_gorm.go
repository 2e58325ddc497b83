package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

func (r *SubscriptionGormRepository) ListActivePlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price_in_cents ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *SubscriptionGormRepository) GetPlanByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Plan, error) {

	var plan models.Plan
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&plan).Error; err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

func (r *SubscriptionGormRepository) HasActiveSubscription(
	ctx context.Context,
	clinicID uuid.UUID,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("clinic_id = ? AND status = ?", clinicID, models.SubscriptionActive).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionGormRepository) CreateSubscription(
	ctx context.Context,
	sub *models.Subscription,
) error {
	return r.db.WithContext(ctx).Omit("Plan").Create(sub).Error
}

func (r *SubscriptionGormRepository) GetSubscriptionByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Subscription, error) {

	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("id = ?", id).
		First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

// ActivateSubscription moves a pending subscription to active. It reports
// false when the row was not pending anymore.
func (r *SubscriptionGormRepository) ActivateSubscription(
	ctx context.Context,
	id uuid.UUID,
	paymentID string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, models.SubscriptionPending).
		Updates(map[string]any{
			"status":     models.SubscriptionActive,
			"payment_id": paymentID,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
