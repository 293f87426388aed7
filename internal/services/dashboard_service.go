package services

import (
	"context"
	"log"
	"time"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

const monthlyBuckets = 6

type subscriptionScanner interface {
	ListAll(ctx context.Context) ([]models.Subscription, error)
}

type expirySweeper interface {
	ExpireSubscriptions(ctx context.Context) (int, error)
}

type DashboardService struct {
	players       playerDirectory
	coaches       coachDirectory
	subscriptions subscriptionScanner
	sweeper       expirySweeper
}

func NewDashboardService(
	players playerDirectory,
	coaches coachDirectory,
	subscriptions subscriptionScanner,
	sweeper expirySweeper,
) *DashboardService {
	return &DashboardService{
		players:       players,
		coaches:       coaches,
		subscriptions: subscriptions,
		sweeper:       sweeper,
	}
}

// Stats is a pure read-side rollup over the three main collections. The
// expiry sweep runs first, best effort, so the status histogram reflects
// reality even when the scheduled sweep has not fired yet.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if _, err := s.sweeper.ExpireSubscriptions(ctx); err != nil {
		log.Printf("expiry sweep before dashboard stats: %v", err)
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	coaches, err := s.coaches.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.subscriptions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		SubscriptionStatus: map[models.SubscriptionStatus]int{
			models.SubscriptionPending:  0,
			models.SubscriptionActive:   0,
			models.SubscriptionRejected: 0,
			models.SubscriptionStopped:  0,
		},
		MonthlyGrowth: emptyBuckets(time.Now().UTC()),
	}
	index := bucketIndex(stats.MonthlyGrowth)

	for _, player := range players {
		stats.Players.Total++
		if player.Status == models.AccountActive {
			stats.Players.Active++
		}
		if i, ok := index[monthKey(player.CreatedAt)]; ok {
			stats.MonthlyGrowth[i].Players++
		}
	}

	for _, coach := range coaches {
		stats.Coaches.Total++
		if coach.Status == models.AccountActive {
			stats.Coaches.Active++
		}
		if i, ok := index[monthKey(coach.CreatedAt)]; ok {
			stats.MonthlyGrowth[i].Coaches++
		}
	}

	for _, subscription := range subscriptions {
		stats.Subscriptions.Total++
		if subscription.Status == models.SubscriptionActive {
			stats.Subscriptions.Active++
		}
		stats.SubscriptionStatus[subscription.Status]++
		if i, ok := index[monthKey(subscription.CreatedAt)]; ok {
			stats.MonthlyGrowth[i].Subscriptions++
		}
	}

	return stats, nil
}

// emptyBuckets builds the trailing window oldest-first, current month last.
func emptyBuckets(now time.Time) []models.MonthlyBucket {
	buckets := make([]models.MonthlyBucket, monthlyBuckets)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < monthlyBuckets; i++ {
		month := first.AddDate(0, i-(monthlyBuckets-1), 0)
		buckets[i] = models.MonthlyBucket{Month: month.Format("Jan 2006")}
	}
	return buckets
}

func bucketIndex(buckets []models.MonthlyBucket) map[string]int {
	index := make(map[string]int, len(buckets))
	for i, bucket := range buckets {
		index[bucket.Month] = i
	}
	return index
}

// monthKey returns a key that can never hit a bucket for unparseable
// creation dates, which decode as the zero time.
func monthKey(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format("Jan 2006")
}
