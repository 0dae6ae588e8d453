package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// TournamentFilter narrows ListTournaments. Nil fields are not applied.
type TournamentFilter struct {
	Status   *tournament.Status
	Category *tournament.Category
}

const (
	selectTournamentQuery = `
		SELECT t.*,
			(SELECT COUNT(*) FROM teams tm WHERE tm.tournament_id = t.id AND tm.status = 'approved') AS teams_count
		FROM tournaments t`
	createTournamentQuery = `
		INSERT INTO tournaments (id, code, name, category, status, format, logo, description,
			start_date, end_date, registration_deadline, max_teams, location, prize_pool, created_at, updated_at)
		VALUES (:id, :code, :name, :category, :status, :format, :logo, :description,
			:start_date, :end_date, :registration_deadline, :max_teams, :location, :prize_pool, :created_at, :updated_at)`
	updateTournamentQuery = `
		UPDATE tournaments SET
			name = :name,
			category = :category,
			status = :status,
			format = :format,
			logo = :logo,
			description = :description,
			start_date = :start_date,
			end_date = :end_date,
			registration_deadline = :registration_deadline,
			max_teams = :max_teams,
			location = :location,
			prize_pool = :prize_pool,
			updated_at = :updated_at
		WHERE id = :id`
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tournament *tournament.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tournament *tournament.Tournament) error {
	res, err := s.db.NamedExecContext(ctx, updateTournamentQuery, tournament)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TournamentStore) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

// GetTournamentTx reads the tournament and its approved-team count inside tx, so the
// registration engine sees the same snapshot it writes into.
func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := sqlx.GetContext(ctx, q, &t, selectTournamentQuery+" WHERE t.id = ?", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM tournaments WHERE code = ?)", code)
	return exists, err
}

// ListTournaments returns tournaments newest first.
func (s *TournamentStore) ListTournaments(ctx context.Context, filter TournamentFilter) ([]tournament.Tournament, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		conds = append(conds, "t.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Category != nil {
		conds = append(conds, "t.category = ?")
		args = append(args, *filter.Category)
	}

	query := selectTournamentQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC"

	tournaments := []tournament.Tournament{}
	if err := s.db.SelectContext(ctx, &tournaments, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return tournaments, nil
}
