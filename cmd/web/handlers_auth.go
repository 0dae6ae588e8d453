package main

import (
	"net/http"

	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/courtside/tournament-registry/internal/middleware"
	"github.com/courtside/tournament-registry/internal/service"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	session, err := app.accounts.Login(r.Context(), in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "login successful", httputil.Envelope{
		"access":  session.Access,
		"refresh": session.Refresh,
		"user":    session.User,
	})
}

func (app *application) signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	session, err := app.accounts.Signup(r.Context(), in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusCreated, "user registered", httputil.Envelope{
		"access":  session.Access,
		"refresh": session.Refresh,
		"user":    session.User,
	})
}

func (app *application) refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	access, err := app.accounts.Refresh(r.Context(), in.Refresh)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"access": access})
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	if err := app.accounts.Logout(r.Context(), middleware.GetAuthenticatedUser(r.Context()), in.Refresh); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "logged out", nil)
}

func (app *application) profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetAuthenticatedUser(r.Context())
	httputil.Success(w, app.log, http.StatusOK, "", httputil.Envelope{"user": user})
}

func (app *application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileUpdateInput
	if err := httputil.Decode(r, &in); err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	user, err := app.accounts.UpdateProfile(r.Context(), middleware.GetAuthenticatedUser(r.Context()), in)
	if err != nil {
		httputil.Error(w, app.log, err)
		return
	}
	httputil.Success(w, app.log, http.StatusOK, "profile updated", httputil.Envelope{"user": user})
}

func (app *application) verify(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetAuthenticatedUser(r.Context())
	httputil.Success(w, app.log, http.StatusOK, "token is valid", httputil.Envelope{
		"user_id": user.ID,
		"email":   user.Email,
	})
}
