package models

type EntityCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type MonthlyBucket struct {
	Month         string `json:"month"`
	Players       int    `json:"players"`
	Coaches       int    `json:"coaches"`
	Subscriptions int    `json:"subscriptions"`
}

type DashboardStats struct {
	Players            EntityCounts               `json:"players"`
	Coaches            EntityCounts               `json:"coaches"`
	Subscriptions      EntityCounts               `json:"subscriptions"`
	SubscriptionStatus map[SubscriptionStatus]int `json:"subscriptionStatus"`
	MonthlyGrowth      []MonthlyBucket            `json:"monthlyGrowth"`
}
