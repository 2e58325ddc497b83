package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type DoctorGormRepository struct {
	db *gorm.DB
}

func NewDoctorGormRepository(db *gorm.DB) *DoctorGormRepository {
	return &DoctorGormRepository{db: db}
}

func (r *DoctorGormRepository) CreateDoctor(
	ctx context.Context,
	doctor *models.Doctor,
) error {
	return r.db.WithContext(ctx).Omit("Clinic").Create(doctor).Error
}

func (r *DoctorGormRepository) UpdateDoctor(
	ctx context.Context,
	doctor *models.Doctor,
) error {
	return r.db.WithContext(ctx).Omit("Clinic").Save(doctor).Error
}

func (r *DoctorGormRepository) DeleteDoctor(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Doctor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *DoctorGormRepository) ListDoctorsByClinic(
	ctx context.Context,
	clinicID uuid.UUID,
) ([]models.Doctor, error) {

	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorGormRepository) CountDoctorsByClinic(
	ctx context.Context,
	clinicID uuid.UUID,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("clinic_id = ?", clinicID).
		Count(&count).Error
	return count, err
}

func (r *DoctorGormRepository) CountAppointmentsByDoctor(
	ctx context.Context,
	doctorID uuid.UUID,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Count(&count).Error
	return count, err
}

// GetActivePlan returns the plan of the clinic's active subscription, or
// domain.ErrRecordNotFound when the clinic has none.
func (r *DoctorGormRepository) GetActivePlan(
	ctx context.Context,
	clinicID uuid.UUID,
) (*models.Plan, error) {

	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("clinic_id = ? AND status = ?", clinicID, models.SubscriptionActive).
		Order("updated_at DESC").
		First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub.Plan, nil
}
