package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/courtside/tournament-registry/internal/db"
	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/courtside/tournament-registry/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(db.MemoryDSN)
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

func newTournament(code string, createdAt time.Time) *tournament.Tournament {
	deadline := tournament.NewDate(2025, 6, 30)
	return &tournament.Tournament{
		ID:                   uuid.New(),
		Code:                 code,
		Name:                 "Copa " + code,
		Category:             tournament.Masculine,
		Status:               tournament.StatusActive,
		Format:               tournament.Knockout,
		RegistrationDeadline: &deadline,
		MaxTeams:             4,
		Location:             utils.Ptr("Caracas"),
		CreatedAt:            createdAt,
		UpdatedAt:            createdAt,
	}
}

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	created := newTournament("C1", time.Now().UTC())

	err := store.CreateTournament(context.Background(), created)
	require.NoError(t, err)

	fetched, err := store.GetTournament(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Code, fetched.Code)
	assert.Equal(t, created.Category, fetched.Category)
	assert.Equal(t, created.MaxTeams, fetched.MaxTeams)
	assert.Equal(t, "2025-06-30", fetched.RegistrationDeadline.String())
	assert.Nil(t, fetched.StartDate)
	assert.Equal(t, "Caracas", *fetched.Location)
	assert.Zero(t, fetched.TeamsCount)
	assert.WithinDuration(t, created.CreatedAt, fetched.CreatedAt, time.Second)

	exists, err := store.CodeExists(context.Background(), "C1")
	require.NoError(t, err)
	assert.True(t, exists)

	err = store.CreateTournament(context.Background(), newTournament("C1", time.Now().UTC()))
	assert.True(t, IsUniqueViolation(err))
}

func TestListTournamentsFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := newTournament("A", base)
	second := newTournament("B", base.Add(time.Hour))
	second.Category = tournament.Feminine
	third := newTournament("C", base.Add(2*time.Hour))
	third.Status = tournament.StatusFinished
	for _, tr := range []*tournament.Tournament{first, second, third} {
		require.NoError(t, store.CreateTournament(ctx, tr))
	}

	all, err := store.ListTournaments(ctx, TournamentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest first")

	active, err := store.ListTournaments(ctx, TournamentFilter{Status: utils.Ptr(tournament.StatusActive)})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	feminine, err := store.ListTournaments(ctx, TournamentFilter{
		Status:   utils.Ptr(tournament.StatusActive),
		Category: utils.Ptr(tournament.Feminine),
	})
	require.NoError(t, err)
	require.Len(t, feminine, 1)
	assert.Equal(t, second.ID, feminine[0].ID)
}

func TestTeamsAndPlayers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournaments := NewTournamentStore(db)
	teams := NewTeamStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	tr := newTournament("T", now)
	require.NoError(t, tournaments.CreateTournament(ctx, tr))

	team := &tournament.Team{
		ID:            uuid.New(),
		TournamentID:  tr.ID,
		Name:          "Leones",
		ContactPerson: "Luis",
		ContactNumber: "555",
		Status:        tournament.TeamApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	players := []tournament.Player{
		{ID: uuid.New(), TeamID: team.ID, Name: "A", LastName: "Uno", Cedula: "1", CreatedAt: now},
		{ID: uuid.New(), TeamID: team.ID, Name: "B", LastName: "Dos", Cedula: "2", CreatedAt: now},
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, teams.CreateTeam(ctx, tx, team))
	require.NoError(t, teams.CreatePlayers(ctx, tx, players))

	count, err := teams.CountTeamsTx(ctx, tx, tr.ID, tournament.TeamPending, tournament.TeamApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	inTx, err := tournaments.GetTournamentTx(ctx, tx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inTx.TeamsCount)
	require.NoError(t, tx.Commit())

	fetched, err := teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copa T", fetched.TournamentName)

	listed, err := teams.ListTeams(ctx, TeamFilter{TournamentID: &tr.ID})
	require.NoError(t, err)
	require.NoError(t, teams.AttachPlayers(ctx, listed))
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Players, 2)

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	dup := []tournament.Player{{ID: uuid.New(), TeamID: team.ID, Name: "C", LastName: "Tres", Cedula: "1", CreatedAt: now}}
	err = teams.CreatePlayers(ctx, tx, dup)
	assert.True(t, IsUniqueViolation(err))
	require.NoError(t, tx.Rollback())
}

func TestUpdateMissingRows(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	missing := &tournament.Team{ID: uuid.New(), Status: tournament.TeamApproved}

	assert.ErrorIs(t, NewTeamStore(db).UpdateTeamStatus(ctx, missing), sql.ErrNoRows)
	assert.ErrorIs(t, NewTournamentStore(db).DeleteTournament(ctx, uuid.New()), sql.ErrNoRows)
}
