package main

import (
	"net/http"
	"strings"

	"github.com/courtside/tournament-registry/internal/assets"
	"github.com/courtside/tournament-registry/internal/authz"
	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/courtside/tournament-registry/internal/middleware"
	"github.com/courtside/tournament-registry/internal/service"
	"github.com/courtside/tournament-registry/internal/token"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type application struct {
	log          *zap.Logger
	tokens       *token.Manager
	accounts     *service.AccountService
	tournaments  *service.TournamentService
	registration *service.RegistrationService
	stats        *service.StatsService
	assets       assets.Store

	maxUploadBytes int64
	// mediaDir is served under mediaURL when assets are stored on local disk.
	mediaDir string
	mediaURL string
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(app.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.LoadPrincipal(app.tokens, app.accounts, app.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(w, app.log, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, app.log, http.StatusMethodNotAllowed, httputil.Envelope{"success": false, "message": "method not allowed"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.Success(w, app.log, http.StatusOK, "ok", nil)
	})

	if app.mediaDir != "" {
		prefix := "/" + strings.Trim(app.mediaURL, "/")
		fileServer := http.FileServer(http.Dir(app.mediaDir))
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", fileServer))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(app.guard(authz.AuthLogin)).Post("/login", app.login)
		r.With(app.guard(authz.AuthRegister)).Post("/register", app.signup)
		r.With(app.guard(authz.AuthRefresh)).Post("/refresh", app.refresh)
		r.With(app.guard(authz.AuthLogout)).Post("/logout", app.logout)
		r.With(app.guard(authz.AuthProfile)).Get("/profile", app.profile)
		r.With(app.guard(authz.AuthProfileUpdate)).Put("/profile", app.updateProfile)
		r.With(app.guard(authz.AuthProfileUpdate)).Put("/profile/update", app.updateProfile)
		r.With(app.guard(authz.AuthVerify)).Get("/verify", app.verify)
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.With(app.guard(authz.TournamentList)).Get("/", app.listTournaments)
		r.With(app.guard(authz.TournamentCreate)).Post("/", app.createTournament)
		r.With(app.guard(authz.TournamentActive)).Get("/active", app.activeTournaments)

		r.Route("/{id}", func(r chi.Router) {
			r.With(app.guard(authz.TournamentGet)).Get("/", app.getTournament)
			r.With(app.guard(authz.TournamentUpdate)).Put("/", app.updateTournament)
			r.With(app.guard(authz.TournamentUpdate)).Patch("/", app.updateTournament)
			r.With(app.guard(authz.TournamentDelete)).Delete("/", app.deleteTournament)
			r.With(app.guard(authz.TournamentTeams)).Get("/teams", app.tournamentTeams)
			r.With(app.guard(authz.TournamentStats)).Get("/stats", app.tournamentStats)
		})
	})

	r.Route("/teams", func(r chi.Router) {
		r.With(app.guard(authz.TeamRegister)).Post("/", app.registerTeam)
		r.With(app.guard(authz.TeamPending)).Get("/pending", app.pendingTeams)

		r.Route("/{id}", func(r chi.Router) {
			r.With(app.guard(authz.TeamGet)).Get("/", app.getTeam)
			r.With(app.guard(authz.TeamUpdate)).Patch("/", app.updateTeam)
			r.With(app.guard(authz.TeamUpdate)).Put("/", app.updateTeam)
			r.With(app.guard(authz.TeamApprove)).Post("/approve", app.approveTeam)
			r.With(app.guard(authz.TeamReject)).Post("/reject", app.rejectTeam)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(app.guard(authz.AdminTeamList)).Get("/teams", app.adminTeams)
		r.With(app.guard(authz.AdminTeamDetail)).Get("/teams/{id}", app.adminTeamDetail)
		r.With(app.guard(authz.AdminTeamStatus)).Patch("/teams/{id}/status", app.adminTeamStatus)
		r.With(app.guard(authz.AdminTournamentTeam)).Get("/tournaments/{id}/teams", app.adminTournamentTeams)
		r.With(app.guard(authz.AdminDashboard)).Get("/dashboard/stats", app.dashboard)
	})

	r.With(app.guard(authz.AssetUpload)).Post("/uploads/{kind}", app.upload)

	return r
}

func (app *application) guard(op authz.Operation) func(http.Handler) http.Handler {
	return middleware.Require(op, app.log)
}

// pathID parses the {id} URL parameter. Ids that cannot exist are reported as not found.
func (app *application) pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.NotFound(w, app.log, what+" not found", err)
		return uuid.Nil, false
	}
	return id, true
}
