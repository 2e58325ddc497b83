package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PetID uuid.UUID `gorm:"type:uuid;index;not null" json:"pet_id"`
	Pet   Pet       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DoctorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_slot,priority:1" json:"doctor_id"`
	Doctor   Doctor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	// (doctor_id, appointment_date, appointment_time) is unique: one booking per slot.
	AppointmentDate string `gorm:"type:varchar(10);not null;uniqueIndex:idx_appointments_slot,priority:2" json:"appointment_date"`
	AppointmentTime string `gorm:"type:varchar(8);not null;uniqueIndex:idx_appointments_slot,priority:3" json:"appointment_time"`

	PriceInCents int64  `gorm:"not null;default:0" json:"price_in_cents"`
	Status       string `gorm:"size:20;not null;default:'AGENDADO'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
