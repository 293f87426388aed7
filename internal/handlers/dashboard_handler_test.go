package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

type stubDashboardService struct {
	stats *models.DashboardStats
	err   error
}

func (s *stubDashboardService) Stats(_ context.Context) (*models.DashboardStats, error) {
	return s.stats, s.err
}

func TestDashboardStatsReturnsRollup(t *testing.T) {
	handler := NewDashboardHandler(&stubDashboardService{
		stats: &models.DashboardStats{
			Players:       models.EntityCounts{Total: 12, Active: 9},
			Coaches:       models.EntityCounts{Total: 4, Active: 3},
			Subscriptions: models.EntityCounts{Total: 20, Active: 8},
			SubscriptionStatus: map[models.SubscriptionStatus]int{
				models.SubscriptionActive: 8,
			},
			MonthlyGrowth: []models.MonthlyBucket{
				{Month: "Mar 2026", Players: 2},
			},
		},
	})

	app := fiber.New()
	app.Get("/api/v1/dashboard/stats", handler.Stats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stats models.DashboardStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if stats.Players.Total != 12 || stats.Subscriptions.Active != 8 {
		t.Fatalf("unexpected rollup body: %+v", stats)
	}
	if len(stats.MonthlyGrowth) != 1 || stats.MonthlyGrowth[0].Month != "Mar 2026" {
		t.Fatalf("unexpected growth buckets: %+v", stats.MonthlyGrowth)
	}
}

func TestDashboardStatsMapsFailure(t *testing.T) {
	handler := NewDashboardHandler(&stubDashboardService{err: errors.New("store unavailable")})

	app := fiber.New()
	app.Get("/api/v1/dashboard/stats", handler.Stats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
