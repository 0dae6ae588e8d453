package service

import (
	"context"
	"testing"
	"time"

	"github.com/courtside/tournament-registry/internal/db"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/courtside/tournament-registry/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(db.MemoryDSN)
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

// fixedCalendar pins "now" to noon UTC on 2025-06-15.
func fixedCalendar() Calendar {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	return Calendar{Now: func() time.Time { return now }, Location: time.UTC}
}

type fixture struct {
	db           *sqlx.DB
	cal          Calendar
	tournaments  *TournamentService
	registration *RegistrationService
	stats        *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := setupTestDB(t)
	return newFixtureWithDB(database)
}

func newFixtureWithDB(database *sqlx.DB) *fixture {
	cal := fixedCalendar()
	log := zap.NewNop()
	tournamentStore := store.NewTournamentStore(database)
	statsStore := store.NewStatsStore(database)
	return &fixture{
		db:           database,
		cal:          cal,
		tournaments:  NewTournamentService(tournamentStore, statsStore, cal, log),
		registration: NewRegistrationService(database, store.NewTeamStore(database), tournamentStore, cal, log),
		stats:        NewStatsService(statsStore, cal),
	}
}

func (f *fixture) createTournament(t *testing.T, code string, mutate func(*CreateTournamentInput)) *tournament.Detail {
	t.Helper()
	in := CreateTournamentInput{
		Name:     "Copa " + code,
		Code:     code,
		Category: tournament.Masculine,
		MaxTeams: utils.Ptr(16),
	}
	if mutate != nil {
		mutate(&in)
	}
	detail, err := f.tournaments.CreateTournament(context.Background(), in)
	require.NoError(t, err)
	return detail
}

func teamInput(tournamentID uuid.UUID, name string, cedulas ...string) RegisterTeamInput {
	if len(cedulas) == 0 {
		cedulas = []string{"V-" + name + "-1"}
	}
	players := make([]PlayerInput, len(cedulas))
	for i, c := range cedulas {
		players[i] = PlayerInput{Name: "Player", LastName: name, Cedula: c}
	}
	return RegisterTeamInput{
		TournamentID:  tournamentID,
		Name:          name,
		ContactPerson: "Coach " + name,
		ContactNumber: "555-0100",
		Players:       players,
	}
}
