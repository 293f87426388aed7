package models

import "time"

type AIRole string

const (
	AIRoleUser      AIRole = "user"
	AIRoleAssistant AIRole = "assistant"
)

type AITurn struct {
	ID        string    `json:"id"`
	Role      AIRole    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
