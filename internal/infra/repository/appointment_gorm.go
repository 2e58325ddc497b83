package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// notFound maps gorm's sentinel to the domain one so use cases never
// import gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// --------------------------------------------------
// Pet / Doctor / Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPetByCode(
	ctx context.Context,
	code string,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&pet).Error; err != nil {
		return nil, notFound(err)
	}
	return &pet, nil
}

func (r *AppointmentGormRepository) GetDoctorByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&doctor).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&clinic).Error; err != nil {
		return nil, notFound(err)
	}
	return &clinic, nil
}

func (r *AppointmentGormRepository) GetClinicByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&clinic).Error; err != nil {
		return nil, notFound(err)
	}
	return &clinic, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// HasConflict is an early, advisory check. idx_appointments_slot decides
// concurrent inserts.
func (r *AppointmentGormRepository) HasConflict(
	ctx context.Context,
	doctorID uuid.UUID,
	date string,
	hhmmss string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND appointment_date = ? AND appointment_time = ?",
			doctorID, date, hhmmss,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Pet", "Doctor").Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (cancel / status)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentInClinic(
	ctx context.Context,
	appointmentID uuid.UUID,
	clinicID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.id = ? AND doctors.clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentClinic(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Appointment, uuid.UUID, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		InnerJoins("Doctor").
		Where("appointments.id = ?", appointmentID).
		First(&ap).Error; err != nil {
		return nil, uuid.Nil, notFound(err)
	}
	return &ap, ap.Doctor.ClinicID, nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	id uuid.UUID,
	status appt.Status,
	updatedAt time.Time,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Availability / agenda
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedTimes(
	ctx context.Context,
	doctorID uuid.UUID,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date).
		Order("appointment_time ASC").
		Pluck("appointment_time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	clinicID uuid.UUID,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Doctor").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where(
			"doctors.clinic_id = ? AND appointments.appointment_date BETWEEN ? AND ?",
			clinicID, fromDate, toDate,
		).
		Order("appointments.appointment_date ASC").
		Order("appointments.appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
