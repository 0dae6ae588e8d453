package main

import (
	"net/http"

	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/courtside/tournament-registry/internal/service"
	"github.com/courtside/tournament-registry/internal/tournament"
)

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"tournaments": tournaments})
}

func (app *application) activeTournaments(w http.ResponseWriter, r *http.Request) {
	var category *tournament.Category
	if c := r.URL.Query().Get("category"); c != "" {
		cat := tournament.Category(c)
		category = &cat
	}
	tournaments, err := app.tournaments.ListActiveTournaments(r.Context(), category)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"tournaments": tournaments})
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTournamentInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	created, err := app.tournaments.CreateTournament(r.Context(), in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusCreated, "tournament created", httputil.Envelope{"tournament": created})
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	detail, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"tournament": detail})
}

// updateTournament serves both PUT and PATCH; absent fields keep their values.
func (app *application) updateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	var in service.UpdateTournamentInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	detail, err := app.tournaments.UpdateTournament(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "tournament updated", httputil.Envelope{"tournament": detail})
}

func (app *application) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "tournament deleted", nil)
}

func (app *application) tournamentTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	teams, err := app.registration.ListApprovedTeams(r.Context(), id)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"teams": teams})
}

func (app *application) tournamentStats(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "tournament")
	if !ok {
		return
	}
	stats, err := app.tournaments.Stats(r.Context(), id)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"stats": stats})
}
