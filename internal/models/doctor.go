package models

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;index;not null" json:"clinic_id"`
	Clinic   Clinic    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name      string `gorm:"size:100;not null" json:"name"`
	CRMV      string `gorm:"size:30" json:"crmv"`
	Specialty string `gorm:"size:100" json:"specialty"`

	AppointmentPriceInCents int64 `gorm:"not null;default:0" json:"appointment_price_in_cents"`

	// Weekly window. Week days use Sunday=0 and the range may wrap
	// (from > to, e.g. Friday=5 to Sunday=0).
	AvailableFromWeekDay int    `gorm:"not null" json:"available_from_week_day"`
	AvailableToWeekDay   int    `gorm:"not null" json:"available_to_week_day"`
	AvailableFromTime    string `gorm:"type:varchar(8);not null" json:"available_from_time"`
	AvailableToTime      string `gorm:"type:varchar(8);not null" json:"available_to_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
