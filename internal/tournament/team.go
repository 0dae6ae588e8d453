package tournament

import (
	"time"

	"github.com/google/uuid"
)

type TeamStatus string

const (
	TeamPending  TeamStatus = "pending"
	TeamApproved TeamStatus = "approved"
	TeamRejected TeamStatus = "rejected"
)

func (s TeamStatus) Valid() bool {
	switch s {
	case TeamPending, TeamApproved, TeamRejected:
		return true
	}
	return false
}

type Team struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	TournamentID   uuid.UUID  `db:"tournament_id" json:"tournament"`
	TournamentName string     `db:"tournament_name" json:"tournament_name"`
	Name           string     `db:"name" json:"name"`
	Logo           *string    `db:"logo" json:"logo"`
	ContactPerson  string     `db:"contact_person" json:"contact_person"`
	ContactNumber  string     `db:"contact_number" json:"contact_number"`
	Status         TeamStatus `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	Players []Player `db:"-" json:"players"`
}

type Player struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TeamID    uuid.UUID `db:"team_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Cedula    string    `db:"cedula" json:"cedula"`
	Photo     *string   `db:"photo" json:"photo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DuplicateCedulas returns every cedula that appears more than once in players,
// in first-seen order.
func DuplicateCedulas(players []Player) []string {
	seen := make(map[string]int, len(players))
	var dups []string
	for _, p := range players {
		seen[p.Cedula]++
		if seen[p.Cedula] == 2 {
			dups = append(dups, p.Cedula)
		}
	}
	return dups
}
