package dto

import "github.com/google/uuid"

type AppointmentListDTO struct {
	ID              uuid.UUID `json:"id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Status          string    `json:"status"`
	PriceInCents    int64     `json:"price_in_cents"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	PetCode         string    `json:"pet_code"`
	PetName         string    `json:"pet_name"`
}
