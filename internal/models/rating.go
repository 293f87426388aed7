package models

import "time"

type Rating struct {
	ID         string    `json:"id"`
	CoachID    string    `json:"coachId"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Rating     int       `json:"rating"`
	Review     *string   `json:"review,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CoachRatingStats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}
