package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/courtside/tournament-registry/internal/utils"
	"github.com/courtside/tournament-registry/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RegistrationService owns team submissions and their approval workflow.
type RegistrationService struct {
	db          *sqlx.DB
	teams       *store.TeamStore
	tournaments *store.TournamentStore
	cal         Calendar
	log         *zap.Logger

	// reservePending counts pending submissions against max_teams in addition to approved teams.
	reservePending bool
}

func NewRegistrationService(db *sqlx.DB, teams *store.TeamStore, tournaments *store.TournamentStore, cal Calendar, log *zap.Logger) *RegistrationService {
	return &RegistrationService{db: db, teams: teams, tournaments: tournaments, cal: cal, log: log}
}

func (s *RegistrationService) ReservePendingSlots(reserve bool) *RegistrationService {
	s.reservePending = reserve
	return s
}

type PlayerInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	LastName string  `json:"last_name" validate:"required,max=100"`
	Cedula   string  `json:"cedula" validate:"required,max=20"`
	Photo    *string `json:"photo" validate:"omitempty,max=500"`
}

type RegisterTeamInput struct {
	TournamentID  uuid.UUID     `json:"tournament" validate:"required"`
	Name          string        `json:"name" validate:"required,max=100"`
	Logo          *string       `json:"logo" validate:"omitempty,max=500"`
	ContactPerson string        `json:"contact_person" validate:"required,max=100"`
	ContactNumber string        `json:"contact_number" validate:"required,max=20"`
	Players       []PlayerInput `json:"players" validate:"required,min=1,dive"`
}

// UpdateTeamInput edits a team's descriptive fields. Tournament and status are not
// editable here; a null logo clears it.
type UpdateTeamInput struct {
	Name          *string                `json:"name" validate:"omitnil,min=1,max=100"`
	Logo          utils.Nullable[string] `json:"logo" validate:"omitempty,max=500"`
	ContactPerson *string                `json:"contact_person" validate:"omitnil,min=1,max=100"`
	ContactNumber *string                `json:"contact_number" validate:"omitnil,min=1,max=20"`
}

// TeamQuery narrows admin team listings.
type TeamQuery struct {
	TournamentID *uuid.UUID
	Status       *tournament.TeamStatus
}

// RegisterTeam creates a pending team and its roster in one transaction. The
// tournament's openness and capacity are read inside the same transaction; the
// connection begins it with BEGIN IMMEDIATE, so concurrent registrations are
// serialized and cannot both pass the capacity check.
func (s *RegistrationService) RegisterTeam(ctx context.Context, in RegisterTeamInput) (*tournament.Team, error) {
	if in.TournamentID == uuid.Nil {
		return nil, apperr.Validation("invalid data", map[string]string{"tournament": "this field is required"})
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer tx.Rollback()

	t, err := s.tournaments.GetTournamentTx(ctx, tx, in.TournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tournamentNotFound(err)
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}

	if !t.IsRegistrationOpen(s.cal.today()) {
		return nil, apperr.New(apperr.KindRegistrationClosed, "registration for this tournament is closed")
	}

	occupied := t.TeamsCount
	if s.reservePending {
		occupied, err = s.teams.CountTeamsTx(ctx, tx, t.ID, tournament.TeamPending, tournament.TeamApproved)
		if err != nil {
			return nil, fmt.Errorf("count teams: %w", err)
		}
	}
	if occupied >= t.MaxTeams {
		return nil, apperr.New(apperr.KindTournamentFull, "this tournament has reached its maximum number of teams")
	}

	team, err := s.buildTeam(in, t)
	if err != nil {
		return nil, err
	}

	if err := s.teams.CreateTeam(ctx, tx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	if err := s.teams.CreatePlayers(ctx, tx, team.Players); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.Validation("invalid data", map[string]string{"players": "cedula must be unique within a team"})
		}
		return nil, fmt.Errorf("create players: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}

	s.log.Info("team registered",
		zap.String("team_id", team.ID.String()),
		zap.String("tournament_id", t.ID.String()),
		zap.Int("players", len(team.Players)))
	return team, nil
}

// buildTeam validates the submission and assembles the team aggregate.
func (s *RegistrationService) buildTeam(in RegisterTeamInput, t *tournament.Tournament) (*tournament.Team, error) {
	for i := range in.Players {
		in.Players[i].Cedula = strings.TrimSpace(in.Players[i].Cedula)
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.cal.now()
	team := &tournament.Team{
		ID:             uuid.New(),
		TournamentID:   t.ID,
		TournamentName: t.Name,
		Name:           in.Name,
		Logo:           utils.TrimPtr(in.Logo),
		ContactPerson:  in.ContactPerson,
		ContactNumber:  in.ContactNumber,
		Status:         tournament.TeamPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	team.Players = make([]tournament.Player, len(in.Players))
	for i, p := range in.Players {
		team.Players[i] = tournament.Player{
			ID:        uuid.New(),
			TeamID:    team.ID,
			Name:      p.Name,
			LastName:  p.LastName,
			Cedula:    p.Cedula,
			Photo:     utils.TrimPtr(p.Photo),
			CreatedAt: now,
		}
	}

	if dups := tournament.DuplicateCedulas(team.Players); len(dups) > 0 {
		return nil, apperr.Validation("invalid data", map[string]string{
			"players": "duplicate cedula in submission: " + strings.Join(dups, ", "),
		})
	}
	return team, nil
}

func (s *RegistrationService) ApproveTeam(ctx context.Context, id uuid.UUID) (*tournament.Team, error) {
	return s.SetTeamStatus(ctx, id, tournament.TeamApproved)
}

func (s *RegistrationService) RejectTeam(ctx context.Context, id uuid.UUID) (*tournament.Team, error) {
	return s.SetTeamStatus(ctx, id, tournament.TeamRejected)
}

// SetTeamStatus moves a team to status. It does not consult tournament capacity:
// capacity gates team creation, not approval. Repeating a transition is a no-op in effect.
func (s *RegistrationService) SetTeamStatus(ctx context.Context, id uuid.UUID, status tournament.TeamStatus) (*tournament.Team, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid status", map[string]string{"status": "must be one of: pending, approved, rejected"})
	}

	team, err := s.loadTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := team.Status
	team.Status = status
	team.UpdatedAt = s.cal.now()

	if err := s.teams.UpdateTeamStatus(ctx, team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, teamNotFound(err)
		}
		return nil, fmt.Errorf("update team status: %w", err)
	}

	s.log.Info("team status changed",
		zap.String("team_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	return s.withPlayers(ctx, team)
}

func (s *RegistrationService) GetTeam(ctx context.Context, id uuid.UUID) (*tournament.Team, error) {
	team, err := s.loadTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withPlayers(ctx, team)
}

func (s *RegistrationService) UpdateTeam(ctx context.Context, id uuid.UUID, in UpdateTeamInput) (*tournament.Team, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	team, err := s.loadTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		team.Name = *in.Name
	}
	team.Logo = utils.TrimPtr(in.Logo.Merge(team.Logo))
	if in.ContactPerson != nil {
		team.ContactPerson = *in.ContactPerson
	}
	if in.ContactNumber != nil {
		team.ContactNumber = *in.ContactNumber
	}
	team.UpdatedAt = s.cal.now()

	if err := s.teams.UpdateTeam(ctx, team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, teamNotFound(err)
		}
		return nil, fmt.Errorf("update team: %w", err)
	}
	return s.withPlayers(ctx, team)
}

func (s *RegistrationService) ListPendingTeams(ctx context.Context) ([]tournament.Team, error) {
	return s.ListTeams(ctx, TeamQuery{Status: utils.Ptr(tournament.TeamPending)})
}

// ListTeams returns teams with rosters, newest first.
func (s *RegistrationService) ListTeams(ctx context.Context, q TeamQuery) ([]tournament.Team, error) {
	if q.Status != nil && !q.Status.Valid() {
		return nil, apperr.Validation("invalid status filter", map[string]string{"status": "must be one of: pending, approved, rejected"})
	}
	teams, err := s.teams.ListTeams(ctx, store.TeamFilter{TournamentID: q.TournamentID, Status: q.Status})
	if err != nil {
		return nil, err
	}
	if err := s.teams.AttachPlayers(ctx, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListTeamsByTournament lists a tournament's teams, optionally by status. Unknown tournaments are NotFound.
func (s *RegistrationService) ListTeamsByTournament(ctx context.Context, tournamentID uuid.UUID, status *tournament.TeamStatus) ([]tournament.Team, error) {
	if err := s.ensureTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.ListTeams(ctx, TeamQuery{TournamentID: &tournamentID, Status: status})
}

// ListApprovedTeams is the public roster of a tournament.
func (s *RegistrationService) ListApprovedTeams(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Team, error) {
	return s.ListTeamsByTournament(ctx, tournamentID, utils.Ptr(tournament.TeamApproved))
}

func (s *RegistrationService) ensureTournament(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tournaments.GetTournament(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tournamentNotFound(err)
		}
		return fmt.Errorf("get tournament: %w", err)
	}
	return nil
}

func (s *RegistrationService) loadTeam(ctx context.Context, id uuid.UUID) (*tournament.Team, error) {
	team, err := s.teams.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, teamNotFound(err)
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

func (s *RegistrationService) withPlayers(ctx context.Context, team *tournament.Team) (*tournament.Team, error) {
	players, err := s.teams.GetPlayers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	team.Players = players
	return team, nil
}

func teamNotFound(cause error) error {
	return apperr.Wrap(apperr.KindNotFound, "team not found", cause)
}
