package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamStore struct {
	db *sqlx.DB
}

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

// TeamFilter narrows ListTeams. Nil fields are not applied.
type TeamFilter struct {
	TournamentID *uuid.UUID
	Status       *tournament.TeamStatus
}

const (
	selectTeamQuery = `
		SELECT tm.*, t.name AS tournament_name
		FROM teams tm
		JOIN tournaments t ON t.id = tm.tournament_id`
	createTeamQuery = `
		INSERT INTO teams (id, tournament_id, name, logo, contact_person, contact_number, status, created_at, updated_at)
		VALUES (:id, :tournament_id, :name, :logo, :contact_person, :contact_number, :status, :created_at, :updated_at)`
	createPlayersQuery = `
		INSERT INTO players (id, team_id, name, last_name, cedula, photo, created_at)
		VALUES (:id, :team_id, :name, :last_name, :cedula, :photo, :created_at)`
	updateTeamQuery = `
		UPDATE teams SET
			name = :name,
			logo = :logo,
			contact_person = :contact_person,
			contact_number = :contact_number,
			updated_at = :updated_at
		WHERE id = :id`
)

func (s *TeamStore) CreateTeam(ctx context.Context, tx *sqlx.Tx, team *tournament.Team) error {
	_, err := tx.NamedExecContext(ctx, createTeamQuery, team)
	return err
}

func (s *TeamStore) CreatePlayers(ctx context.Context, tx *sqlx.Tx, players []tournament.Player) error {
	if len(players) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createPlayersQuery, players)
	return err
}

// CountTeamsTx counts teams of a tournament whose status is one of statuses.
func (s *TeamStore) CountTeamsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, statuses ...tournament.TeamStatus) (int, error) {
	query, args, err := sqlx.In("SELECT COUNT(*) FROM teams WHERE tournament_id = ? AND status IN (?)", tournamentID, statuses)
	if err != nil {
		return 0, err
	}
	var n int
	err = tx.GetContext(ctx, &n, tx.Rebind(query), args...)
	return n, err
}

func (s *TeamStore) GetTeam(ctx context.Context, id uuid.UUID) (*tournament.Team, error) {
	var team tournament.Team
	if err := s.db.GetContext(ctx, &team, selectTeamQuery+" WHERE tm.id = ?", id); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams returns teams newest first.
func (s *TeamStore) ListTeams(ctx context.Context, filter TeamFilter) ([]tournament.Team, error) {
	var (
		conds []string
		args  []any
	)
	if filter.TournamentID != nil {
		conds = append(conds, "tm.tournament_id = ?")
		args = append(args, *filter.TournamentID)
	}
	if filter.Status != nil {
		conds = append(conds, "tm.status = ?")
		args = append(args, *filter.Status)
	}

	query := selectTeamQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY tm.created_at DESC"

	teams := []tournament.Team{}
	if err := s.db.SelectContext(ctx, &teams, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamStore) GetPlayers(ctx context.Context, teamID uuid.UUID) ([]tournament.Player, error) {
	players := []tournament.Player{}
	err := s.db.SelectContext(ctx, &players, "SELECT * FROM players WHERE team_id = ? ORDER BY created_at ASC, rowid ASC", teamID)
	return players, err
}

// AttachPlayers loads the rosters of teams with a single query.
func (s *TeamStore) AttachPlayers(ctx context.Context, teams []tournament.Team) error {
	if len(teams) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	query, args, err := sqlx.In("SELECT * FROM players WHERE team_id IN (?) ORDER BY created_at ASC, rowid ASC", ids)
	if err != nil {
		return err
	}
	var players []tournament.Player
	if err := s.db.SelectContext(ctx, &players, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	byTeam := make(map[uuid.UUID][]tournament.Player, len(teams))
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}
	for i := range teams {
		teams[i].Players = byTeam[teams[i].ID]
		if teams[i].Players == nil {
			teams[i].Players = []tournament.Player{}
		}
	}
	return nil
}

func (s *TeamStore) UpdateTeam(ctx context.Context, team *tournament.Team) error {
	res, err := s.db.NamedExecContext(ctx, updateTeamQuery, team)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TeamStore) UpdateTeamStatus(ctx context.Context, team *tournament.Team) error {
	res, err := s.db.NamedExecContext(ctx, "UPDATE teams SET status = :status, updated_at = :updated_at WHERE id = :id", team)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

