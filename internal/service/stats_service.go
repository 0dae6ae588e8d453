package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/tournament-registry/internal/store"
)

// RecentWindow is the trailing window for "recent" team registrations on the dashboard.
const RecentWindow = 7 * 24 * time.Hour

type StatsService struct {
	stats *store.StatsStore
	cal   Calendar
}

func NewStatsService(stats *store.StatsStore, cal Calendar) *StatsService {
	return &StatsService{stats: stats, cal: cal}
}

// Dashboard aggregates global counts. The recent window is rolling from the call time.
func (s *StatsService) Dashboard(ctx context.Context) (*store.DashboardCounts, error) {
	counts, err := s.stats.DashboardCounts(ctx, s.cal.now().Add(-RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}
