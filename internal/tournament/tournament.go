package tournament

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	Masculine Category = "masculine"
	Feminine  Category = "feminine"
)

func (c Category) Valid() bool {
	return c == Masculine || c == Feminine
}

type Status string

const (
	StatusActive   Status = "active"
	StatusUpcoming Status = "upcoming"
	StatusFinished Status = "finished"
)

type Format string

const (
	RoundRobin Format = "round_robin"
	Knockout   Format = "knockout"
	GroupStage Format = "group_stage"
)

const DefaultMaxTeams = 16

type Tournament struct {
	ID                   uuid.UUID `db:"id"`
	Code                 string    `db:"code"`
	Name                 string    `db:"name"`
	Category             Category  `db:"category"`
	Status               Status    `db:"status"`
	Format               Format    `db:"format"`
	Logo                 *string   `db:"logo"`
	Description          *string   `db:"description"`
	StartDate            *Date     `db:"start_date"`
	EndDate              *Date     `db:"end_date"`
	RegistrationDeadline *Date     `db:"registration_deadline"`
	MaxTeams             int       `db:"max_teams"`
	Location             *string   `db:"location"`
	PrizePool            *string   `db:"prize_pool"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`

	// TeamsCount is the number of approved teams. Stores fill it from a subquery.
	TeamsCount int `db:"teams_count"`
}

func (t *Tournament) IsFull() bool {
	return t.TeamsCount >= t.MaxTeams
}

// IsRegistrationOpen requires an active status and, when a deadline is set, that today
// is not past it. The deadline day itself is still open.
func (t *Tournament) IsRegistrationOpen(today Date) bool {
	if t.Status != StatusActive {
		return false
	}
	if t.RegistrationDeadline == nil {
		return true
	}
	return !today.After(*t.RegistrationDeadline)
}

// CheckDates returns field-level messages for violated date orderings, or nil.
func (t *Tournament) CheckDates() map[string]string {
	problems := map[string]string{}
	if t.StartDate != nil && t.EndDate != nil && t.StartDate.After(*t.EndDate) {
		problems["end_date"] = "end_date must be on or after start_date"
	}
	if t.RegistrationDeadline != nil && t.StartDate != nil && t.RegistrationDeadline.After(*t.StartDate) {
		problems["registration_deadline"] = "registration_deadline must be on or before start_date"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Detail is the full representation including derived fields.
type Detail struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Code                 string    `json:"code"`
	Category             Category  `json:"category"`
	Logo                 *string   `json:"logo"`
	Status               Status    `json:"status"`
	Description          *string   `json:"description"`
	StartDate            *Date     `json:"start_date"`
	EndDate              *Date     `json:"end_date"`
	RegistrationDeadline *Date     `json:"registration_deadline"`
	MaxTeams             int       `json:"max_teams"`
	Format               Format    `json:"format"`
	Location             *string   `json:"location"`
	PrizePool            *string   `json:"prize_pool"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	TeamsCount           int       `json:"teams_count"`
	IsRegistrationOpen   bool      `json:"is_registration_open"`
	IsFull               bool      `json:"is_full"`
}

func (t *Tournament) Detail(today Date) Detail {
	return Detail{
		ID:                   t.ID,
		Name:                 t.Name,
		Code:                 t.Code,
		Category:             t.Category,
		Logo:                 t.Logo,
		Status:               t.Status,
		Description:          t.Description,
		StartDate:            t.StartDate,
		EndDate:              t.EndDate,
		RegistrationDeadline: t.RegistrationDeadline,
		MaxTeams:             t.MaxTeams,
		Format:               t.Format,
		Location:             t.Location,
		PrizePool:            t.PrizePool,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		TeamsCount:           t.TeamsCount,
		IsRegistrationOpen:   t.IsRegistrationOpen(today),
		IsFull:               t.IsFull(),
	}
}

// Summary is the lightweight list projection.
type Summary struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Code                 string    `json:"code"`
	Category             Category  `json:"category"`
	Logo                 *string   `json:"logo"`
	Status               Status    `json:"status"`
	StartDate            *Date     `json:"start_date"`
	RegistrationDeadline *Date     `json:"registration_deadline"`
	MaxTeams             int       `json:"max_teams"`
	TeamsCount           int       `json:"teams_count"`
	IsRegistrationOpen   bool      `json:"is_registration_open"`
}

func (t *Tournament) Summary(today Date) Summary {
	return Summary{
		ID:                   t.ID,
		Name:                 t.Name,
		Code:                 t.Code,
		Category:             t.Category,
		Logo:                 t.Logo,
		Status:               t.Status,
		StartDate:            t.StartDate,
		RegistrationDeadline: t.RegistrationDeadline,
		MaxTeams:             t.MaxTeams,
		TeamsCount:           t.TeamsCount,
		IsRegistrationOpen:   t.IsRegistrationOpen(today),
	}
}
