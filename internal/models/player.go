package models

import "time"

type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

type Player struct {
	ID        string        `json:"id"`
	FullName  string        `json:"fullName"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone,omitempty"`
	Status    AccountStatus `json:"status"`
	PhotoURL  *string       `json:"photoUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type PlayerListFilter struct {
	Search string
	Status AccountStatus
}
