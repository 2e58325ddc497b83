package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

// Repository is the storage contract of the appointment use cases. Lookups
// return domain.ErrRecordNotFound when nothing matches.
type Repository interface {
	// -------- Pet / Doctor / Clinic --------
	GetPetByCode(ctx context.Context, code string) (*models.Pet, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error)
	GetClinicByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)

	// -------- Appointment (create / conflict) --------
	HasConflict(ctx context.Context, doctorID uuid.UUID, date, hhmmss string) (bool, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)

	// -------- Appointment (cancel / status) --------

	// GetAppointmentInClinic only matches when the appointment's doctor
	// belongs to clinicID.
	GetAppointmentInClinic(ctx context.Context, appointmentID, clinicID uuid.UUID) (*models.Appointment, error)

	// GetAppointmentClinic returns the appointment together with the id of
	// the clinic its doctor belongs to.
	GetAppointmentClinic(ctx context.Context, appointmentID uuid.UUID) (*models.Appointment, uuid.UUID, error)

	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status Status, updatedAt time.Time) error

	// -------- Availability / agenda --------
	ListBookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	ListAppointmentsForPeriod(ctx context.Context, clinicID uuid.UUID, fromDate, toDate string) ([]models.Appointment, error)
}
