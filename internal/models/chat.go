package models

import "time"

type ConversationStatus string

const (
	ConversationActive ConversationStatus = "active"
	ConversationClosed ConversationStatus = "closed"
)

type SenderType string

const (
	SenderCoach  SenderType = "coach"
	SenderPlayer SenderType = "player"
)

func (s SenderType) Valid() bool {
	return s == SenderCoach || s == SenderPlayer
}

type Conversation struct {
	ID          string             `json:"id"`
	CoachID     string             `json:"coachId"`
	PlayerID    string             `json:"playerId"`
	Status      ConversationStatus `json:"status"`
	LastMessage *MessagePreview    `json:"lastMessage,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty"`
}

// MessagePreview is the denormalized last-message summary kept on the
// conversation document so listings never read the messages subcollection.
type MessagePreview struct {
	Text       string     `json:"text"`
	SenderID   string     `json:"senderId"`
	SenderType SenderType `json:"senderType"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	SenderType SenderType `json:"senderType"`
	Text       string     `json:"text"`
	MediaURL   *string    `json:"mediaUrl,omitempty"`
	Read       bool       `json:"read"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type ConversationSummary struct {
	Conversation
	CoachName  string `json:"coachName"`
	PlayerName string `json:"playerName"`
}
