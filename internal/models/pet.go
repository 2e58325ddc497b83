package models

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Code is the human readable identifier tutors hand to the clinic.
	// Always a fixed-width string of digits, never a number.
	Code string `gorm:"type:varchar(12);uniqueIndex;not null" json:"code"`

	TutorID uuid.UUID `gorm:"type:uuid;index;not null" json:"tutor_id"`
	Tutor   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Species   string `gorm:"size:50;not null" json:"species"`
	Breed     string `gorm:"size:100" json:"breed"`
	BirthDate string `gorm:"type:varchar(10)" json:"birth_date,omitempty"`
	PhotoURL  string `gorm:"size:512" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
