package api

import (
	"errors"
	"net/http"

	"github.com/SergeyKozhin/kinesio-crm/internal/business/auth"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/validator"
)

const minPasswordLength = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentialsRequest) validate(v *validator.Validator) {
	v.Check(c.Email != "", "email", "must be provided")
	v.Check(validator.Matches(c.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(c.Password != "", "password", "must be provided")
	v.Check(len(c.Password) >= minPasswordLength, "password", "must be at least 8 characters long")
	v.Check(len(c.Password) <= 72, "password", "must not be more than 72 bytes long")
}

type authResponse struct {
	User *userResponse `json:"user"`
	tokensResponse
}

func mapAuth(user *model.User, tokens *auth.Tokens) *authResponse {
	return &authResponse{
		User: mapUser(user),
		tokensResponse: tokensResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	}
}

func (a *Api) registerHandler(w http.ResponseWriter, r *http.Request) {
	input := &credentialsRequest{}
	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if input.validate(v); !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, tokens, err := a.authService.Register(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRegistrationClosed):
			a.forbiddenResponse(w, r, err.Error())
		case errors.Is(err, model.ErrAlreadyExists):
			a.conflictResponse(w, r, "a user with this email address already exists")
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, mapAuth(user, tokens), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) loginHandler(w http.ResponseWriter, r *http.Request) {
	input := &credentialsRequest{}
	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.Email != "", "email", "must be provided")
	v.Check(input.Password != "", "password", "must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, tokens, err := a.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			a.unauthorizedResponse(w, r, err)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapAuth(user, tokens), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	tokens, err := a.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	response := &tokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.authService.Logout(r.Context(), input.RefreshToken); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errors.New("can't retrieve user"))
		return
	}

	if err := a.writeJSON(w, http.StatusOK, mapUser(user), nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
