package models

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	PriceInCents int64     `gorm:"not null" json:"price_in_cents"`
	MaxDoctors   int       `gorm:"not null" json:"max_doctors"`
	Active       bool      `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;index;not null" json:"clinic_id"`
	PlanID   uuid.UUID `gorm:"type:uuid;not null" json:"plan_id"`
	Plan     Plan      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"plan"`

	Status       SubscriptionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	PreferenceID string             `gorm:"size:100" json:"preference_id"`
	PaymentID    string             `gorm:"size:50" json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
