package store

import (
	"context"
	"time"

	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

type TeamStatusCounts struct {
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
	Total    int `db:"total" json:"total"`
}

type DashboardCounts struct {
	TotalTournaments  int `db:"total_tournaments" json:"total_tournaments"`
	ActiveTournaments int `db:"active_tournaments" json:"active_tournaments"`
	TotalTeams        int `db:"total_teams" json:"total_teams"`
	PendingTeams      int `db:"pending_teams" json:"pending_teams"`
	ApprovedTeams     int `db:"approved_teams" json:"approved_teams"`
	TotalPlayers      int `db:"total_players" json:"total_players"`
	RecentTeams       int `db:"recent_teams" json:"recent_teams"`
}

const (
	teamStatusCountsQuery = `
		SELECT
			COALESCE(SUM(status = 'pending'), 0) AS pending,
			COALESCE(SUM(status = 'approved'), 0) AS approved,
			COALESCE(SUM(status = 'rejected'), 0) AS rejected,
			COUNT(*) AS total
		FROM teams
		WHERE tournament_id = ?`
	dashboardCountsQuery = `
		SELECT
			(SELECT COUNT(*) FROM tournaments) AS total_tournaments,
			(SELECT COUNT(*) FROM tournaments WHERE status = ?) AS active_tournaments,
			(SELECT COUNT(*) FROM teams) AS total_teams,
			(SELECT COUNT(*) FROM teams WHERE status = ?) AS pending_teams,
			(SELECT COUNT(*) FROM teams WHERE status = ?) AS approved_teams,
			(SELECT COUNT(*) FROM players) AS total_players,
			(SELECT COUNT(*) FROM teams WHERE created_at >= ?) AS recent_teams`
)

func (s *StatsStore) TeamStatusCounts(ctx context.Context, tournamentID uuid.UUID) (TeamStatusCounts, error) {
	var counts TeamStatusCounts
	err := s.db.GetContext(ctx, &counts, teamStatusCountsQuery, tournamentID)
	return counts, err
}

// DashboardCounts counts teams created at or after recentSince as recent.
func (s *StatsStore) DashboardCounts(ctx context.Context, recentSince time.Time) (DashboardCounts, error) {
	var counts DashboardCounts
	err := s.db.GetContext(ctx, &counts, dashboardCountsQuery,
		tournament.StatusActive, tournament.TeamPending, tournament.TeamApproved, recentSince.UTC())
	return counts, err
}
