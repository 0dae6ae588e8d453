package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/courtside/tournament-registry/internal/utils"
	"github.com/courtside/tournament-registry/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TournamentService struct {
	store *store.TournamentStore
	stats *store.StatsStore
	cal   Calendar
	log   *zap.Logger
}

func NewTournamentService(store *store.TournamentStore, stats *store.StatsStore, cal Calendar, log *zap.Logger) *TournamentService {
	return &TournamentService{store: store, stats: stats, cal: cal, log: log}
}

type CreateTournamentInput struct {
	Name                 string              `json:"name" validate:"required,max=100"`
	Code                 string              `json:"code" validate:"required,max=20"`
	Category             tournament.Category `json:"category" validate:"required,oneof=masculine feminine"`
	Status               tournament.Status   `json:"status" validate:"omitempty,oneof=active upcoming finished"`
	Format               tournament.Format   `json:"format" validate:"omitempty,oneof=round_robin knockout group_stage"`
	Logo                 *string             `json:"logo" validate:"omitempty,max=500"`
	Description          *string             `json:"description"`
	StartDate            *tournament.Date    `json:"start_date"`
	EndDate              *tournament.Date    `json:"end_date"`
	RegistrationDeadline *tournament.Date    `json:"registration_deadline"`
	MaxTeams             *int                `json:"max_teams" validate:"omitnil,gte=1"`
	Location             *string             `json:"location" validate:"omitempty,max=200"`
	PrizePool            *string             `json:"prize_pool" validate:"omitempty,max=100"`
}

// UpdateTournamentInput is a partial update. Absent keys keep their current value;
// an explicit null clears the optional fields. The code is fixed at creation.
type UpdateTournamentInput struct {
	Name                 *string                         `json:"name" validate:"omitnil,min=1,max=100"`
	Category             *tournament.Category            `json:"category" validate:"omitempty,oneof=masculine feminine"`
	Status               *tournament.Status              `json:"status" validate:"omitempty,oneof=active upcoming finished"`
	Format               *tournament.Format              `json:"format" validate:"omitempty,oneof=round_robin knockout group_stage"`
	Logo                 utils.Nullable[string]          `json:"logo" validate:"omitempty,max=500"`
	Description          utils.Nullable[string]          `json:"description"`
	StartDate            utils.Nullable[tournament.Date] `json:"start_date"`
	EndDate              utils.Nullable[tournament.Date] `json:"end_date"`
	RegistrationDeadline utils.Nullable[tournament.Date] `json:"registration_deadline"`
	MaxTeams             *int                            `json:"max_teams" validate:"omitnil,gte=1"`
	Location             utils.Nullable[string]          `json:"location" validate:"omitempty,max=200"`
	PrizePool            utils.Nullable[string]          `json:"prize_pool" validate:"omitempty,max=100"`
}

type TournamentStats struct {
	Tournament         tournament.Detail      `json:"tournament"`
	Teams              store.TeamStatusCounts `json:"teams"`
	IsFull             bool                   `json:"is_full"`
	IsRegistrationOpen bool                   `json:"is_registration_open"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateTournamentInput) (*tournament.Detail, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.cal.now()
	t := &tournament.Tournament{
		ID:                   uuid.New(),
		Code:                 in.Code,
		Name:                 in.Name,
		Category:             in.Category,
		Status:               in.Status,
		Format:               in.Format,
		Logo:                 utils.TrimPtr(in.Logo),
		Description:          utils.TrimPtr(in.Description),
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		MaxTeams:             tournament.DefaultMaxTeams,
		Location:             utils.TrimPtr(in.Location),
		PrizePool:            utils.TrimPtr(in.PrizePool),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if t.Status == "" {
		t.Status = tournament.StatusActive
	}
	if t.Format == "" {
		t.Format = tournament.Knockout
	}
	if in.MaxTeams != nil {
		t.MaxTeams = *in.MaxTeams
	}
	if problems := t.CheckDates(); problems != nil {
		return nil, apperr.Validation("invalid dates", problems)
	}

	exists, err := s.store.CodeExists(ctx, t.Code)
	if err != nil {
		return nil, fmt.Errorf("check tournament code: %w", err)
	}
	if exists {
		return nil, duplicateCode()
	}

	if err := s.store.CreateTournament(ctx, t); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, duplicateCode()
		}
		return nil, fmt.Errorf("create tournament: %w", err)
	}

	s.log.Info("tournament created", zap.String("tournament_id", t.ID.String()), zap.String("code", t.Code))
	detail := t.Detail(s.cal.today())
	return &detail, nil
}

func duplicateCode() error {
	return apperr.Validation("invalid data", map[string]string{"code": "a tournament with this code already exists"})
}

func (s *TournamentService) UpdateTournament(ctx context.Context, id uuid.UUID, in UpdateTournamentInput) (*tournament.Detail, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Format != nil {
		t.Format = *in.Format
	}
	t.Logo = utils.TrimPtr(in.Logo.Merge(t.Logo))
	t.Description = utils.TrimPtr(in.Description.Merge(t.Description))
	t.StartDate = in.StartDate.Merge(t.StartDate)
	t.EndDate = in.EndDate.Merge(t.EndDate)
	t.RegistrationDeadline = in.RegistrationDeadline.Merge(t.RegistrationDeadline)
	if in.MaxTeams != nil {
		t.MaxTeams = *in.MaxTeams
	}
	t.Location = utils.TrimPtr(in.Location.Merge(t.Location))
	t.PrizePool = utils.TrimPtr(in.PrizePool.Merge(t.PrizePool))
	if problems := t.CheckDates(); problems != nil {
		return nil, apperr.Validation("invalid dates", problems)
	}
	t.UpdatedAt = s.cal.now()

	if err := s.store.UpdateTournament(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tournamentNotFound(err)
		}
		return nil, fmt.Errorf("update tournament: %w", err)
	}

	detail := t.Detail(s.cal.today())
	return &detail, nil
}

// DeleteTournament removes the tournament; teams and players go with it.
func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTournament(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tournamentNotFound(err)
		}
		return fmt.Errorf("delete tournament: %w", err)
	}
	s.log.Info("tournament deleted", zap.String("tournament_id", id.String()))
	return nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Detail, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := t.Detail(s.cal.today())
	return &detail, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]tournament.Summary, error) {
	tournaments, err := s.store.ListTournaments(ctx, store.TournamentFilter{})
	if err != nil {
		return nil, err
	}
	today := s.cal.today()
	out := make([]tournament.Summary, len(tournaments))
	for i := range tournaments {
		out[i] = tournaments[i].Summary(today)
	}
	return out, nil
}

// ListActiveTournaments returns active tournaments newest first, optionally for one category.
func (s *TournamentService) ListActiveTournaments(ctx context.Context, category *tournament.Category) ([]tournament.Detail, error) {
	if category != nil && !category.Valid() {
		return nil, apperr.Validation("invalid category filter", map[string]string{"category": "must be one of: masculine, feminine"})
	}
	tournaments, err := s.store.ListTournaments(ctx, store.TournamentFilter{
		Status:   utils.Ptr(tournament.StatusActive),
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	today := s.cal.today()
	out := make([]tournament.Detail, len(tournaments))
	for i := range tournaments {
		out[i] = tournaments[i].Detail(today)
	}
	return out, nil
}

func (s *TournamentService) Stats(ctx context.Context, id uuid.UUID) (*TournamentStats, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.stats.TeamStatusCounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}

	today := s.cal.today()
	return &TournamentStats{
		Tournament:         t.Detail(today),
		Teams:              counts,
		IsFull:             t.IsFull(),
		IsRegistrationOpen: t.IsRegistrationOpen(today),
	}, nil
}

func (s *TournamentService) load(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tournamentNotFound(err)
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	return t, nil
}

func tournamentNotFound(cause error) error {
	return apperr.Wrap(apperr.KindNotFound, "tournament not found", cause)
}
