// Package authz maps every operation to the role it requires and checks callers against it.
package authz

import (
	"fmt"

	"github.com/courtside/tournament-registry/internal/apperr"
)

type Role int

const (
	Anonymous Role = iota
	Authenticated
	Admin
)

func (r Role) String() string {
	switch r {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

type Operation string

const (
	TournamentList      Operation = "tournament.list"
	TournamentGet       Operation = "tournament.get"
	TournamentActive    Operation = "tournament.active"
	TournamentTeams     Operation = "tournament.teams"
	TournamentCreate    Operation = "tournament.create"
	TournamentUpdate    Operation = "tournament.update"
	TournamentDelete    Operation = "tournament.delete"
	TournamentStats     Operation = "tournament.stats"
	TeamRegister        Operation = "team.register"
	TeamGet             Operation = "team.get"
	TeamUpdate          Operation = "team.update"
	TeamApprove         Operation = "team.approve"
	TeamReject          Operation = "team.reject"
	TeamPending         Operation = "team.pending"
	AdminTeamList       Operation = "admin.team.list"
	AdminTeamDetail     Operation = "admin.team.detail"
	AdminTeamStatus     Operation = "admin.team.status"
	AdminTournamentTeam Operation = "admin.tournament.teams"
	AdminDashboard      Operation = "admin.dashboard"
	AssetUpload         Operation = "asset.upload"
	AuthLogin           Operation = "auth.login"
	AuthRegister        Operation = "auth.register"
	AuthRefresh         Operation = "auth.refresh"
	AuthLogout          Operation = "auth.logout"
	AuthProfile         Operation = "auth.profile"
	AuthProfileUpdate   Operation = "auth.profile.update"
	AuthVerify          Operation = "auth.verify"
)

var required = map[Operation]Role{
	TournamentList:   Anonymous,
	TournamentGet:    Anonymous,
	TournamentActive: Anonymous,
	TournamentTeams:  Anonymous,
	TeamRegister:     Anonymous,
	AssetUpload:      Anonymous,
	AuthLogin:        Anonymous,
	AuthRegister:     Anonymous,
	AuthRefresh:      Anonymous,

	TournamentCreate:  Authenticated,
	TournamentUpdate:  Authenticated,
	TournamentDelete:  Authenticated,
	TournamentStats:   Authenticated,
	TeamGet:           Authenticated,
	TeamUpdate:        Authenticated,
	AuthLogout:        Authenticated,
	AuthProfile:       Authenticated,
	AuthProfileUpdate: Authenticated,
	AuthVerify:        Authenticated,

	// Approval state changes are an administrative decision.
	TeamApprove:         Admin,
	TeamReject:          Admin,
	TeamPending:         Admin,
	AdminTeamList:       Admin,
	AdminTeamDetail:     Admin,
	AdminTeamStatus:     Admin,
	AdminTournamentTeam: Admin,
	AdminDashboard:      Admin,
}

// Required returns the minimum role for op. Unknown operations require Admin.
func Required(op Operation) Role {
	role, ok := required[op]
	if !ok {
		return Admin
	}
	return role
}

// Principal is the caller as seen by the authorization check.
type Principal struct {
	Role Role
	// CredentialErr is set when credentials were supplied but rejected.
	CredentialErr error
}

// Check allows the call when the caller's role satisfies the operation. Missing or
// rejected credentials yield Unauthorized; a valid caller with too low a role yields Forbidden.
func Check(op Operation, p Principal) error {
	need := Required(op)
	if need == Anonymous {
		return nil
	}
	if p.Role == Anonymous {
		if p.CredentialErr != nil {
			return apperr.Wrap(apperr.KindUnauthorized, "invalid credentials", p.CredentialErr)
		}
		return apperr.New(apperr.KindUnauthorized, "authentication credentials were not provided")
	}
	if p.Role < need {
		return apperr.New(apperr.KindForbidden, "you do not have permission to perform this action")
	}
	return nil
}
