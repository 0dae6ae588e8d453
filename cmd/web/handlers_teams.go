package main

import (
	"net/http"

	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/courtside/tournament-registry/internal/service"
	"github.com/courtside/tournament-registry/internal/tournament"
	"github.com/google/uuid"
)

func (app *application) registerTeam(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterTeamInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	team, err := app.registration.RegisterTeam(r.Context(), in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusCreated, "team registered, pending approval", httputil.Envelope{"team": team})
}

func (app *application) pendingTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := app.registration.ListPendingTeams(r.Context())
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"teams": teams})
}

func (app *application) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "team")
	if !ok {
		return
	}
	team, err := app.registration.GetTeam(r.Context(), id)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"team": team})
}

func (app *application) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "team")
	if !ok {
		return
	}
	var in service.UpdateTeamInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	team, err := app.registration.UpdateTeam(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "team updated", httputil.Envelope{"team": team})
}

func (app *application) approveTeam(w http.ResponseWriter, r *http.Request) {
	app.setTeamStatus(w, r, tournament.TeamApproved, "team approved")
}

func (app *application) rejectTeam(w http.ResponseWriter, r *http.Request) {
	app.setTeamStatus(w, r, tournament.TeamRejected, "team rejected")
}

func (app *application) setTeamStatus(w http.ResponseWriter, r *http.Request, status tournament.TeamStatus, message string) {
	id, ok := app.pathID(w, r, "team")
	if !ok {
		return
	}
	team, err := app.registration.SetTeamStatus(r.Context(), id, status)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, message, httputil.Envelope{"status": message, "team": team})
}

func (app *application) adminTeams(w http.ResponseWriter, r *http.Request) {
	q := service.TeamQuery{Status: statusParam(r)}
	if raw := r.URL.Query().Get("tournament"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.BadRequest(w, app.log, "invalid tournament filter", err)
			return
		}
		q.TournamentID = &id
	}

	teams, err := app.registration.ListTeams(r.Context(), q)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"teams": teams})
}

func (app *application) adminTeamDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "team")
	if !ok {
		return
	}
	team, err := app.registration.GetTeam(r.Context(), id)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"team": team, "players": team.Players})
}

type teamStatusRequest struct {
	Status tournament.TeamStatus `json:"status"`
}

func (app *application) adminTeamStatus(w http.ResponseWriter, r *http.Request) {
	var in teamStatusRequest
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	app.setTeamStatus(w, r, in.Status, "team status updated")
}

func (app *application) adminTournamentTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	teams, err := app.registration.ListTeamsByTournament(r.Context(), id, statusParam(r))
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"teams": teams})
}

func (app *application) dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := app.stats.Dashboard(r.Context())
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"stats": counts})
}

// statusParam reads the optional ?status= filter. Unknown values are rejected by the service.
func statusParam(r *http.Request) *tournament.TeamStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := tournament.TeamStatus(raw)
	return &status
}
