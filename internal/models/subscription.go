package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionRejected SubscriptionStatus = "rejected"
	SubscriptionStopped  SubscriptionStatus = "stopped"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionPending, SubscriptionActive, SubscriptionRejected, SubscriptionStopped:
		return true
	default:
		return false
	}
}

type Subscription struct {
	ID        string             `json:"id"`
	PlayerID  string             `json:"playerId"`
	CoachID   string             `json:"coachId"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Expired reports whether the engagement window has already closed.
func (s *Subscription) Expired(now time.Time) bool {
	if s.EndDate.IsZero() {
		return false
	}
	return s.EndDate.Before(now)
}

// SubscriptionDetail is the list/read shape: the raw document enriched with
// display names joined in memory from the players and coaches collections.
type SubscriptionDetail struct {
	Subscription
	PlayerName string `json:"playerName"`
	CoachName  string `json:"coachName"`
}

type SubscriptionListFilter struct {
	Search   string
	Status   SubscriptionStatus
	CoachID  string
	PlayerID string
}
