package models

import "time"

const (
	// Default availability window applied when a coach document carries
	// neither timeSlots nor the legacy availability field.
	DefaultSlotStart = "09:00"
	DefaultSlotEnd   = "17:00"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Coach struct {
	ID            string        `json:"id"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Phone         *string       `json:"phone,omitempty"`
	Specialty     *string       `json:"specialty,omitempty"`
	Bio           *string       `json:"bio,omitempty"`
	Status        AccountStatus `json:"status"`
	PhotoURL      *string       `json:"photoUrl,omitempty"`
	AvailableDays []string      `json:"availableDays"`
	TimeSlots     []TimeSlot    `json:"timeSlots"`
	AverageRating float64       `json:"averageRating"`
	TotalReviews  int           `json:"totalReviews"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type CoachListFilter struct {
	Search string
	Status AccountStatus
}

// CoachCalendar is the normalized availability consumed by the admin calendar.
type CoachCalendar struct {
	CoachID       string     `json:"coachId"`
	CoachName     string     `json:"coachName"`
	AvailableDays []string   `json:"availableDays"`
	TimeSlots     []TimeSlot `json:"timeSlots"`
}
