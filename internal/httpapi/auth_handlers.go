package httpapi

import (
	"errors"
	"net/http"

	"taskwire.org/internal/auth"
	"taskwire.org/internal/obs"
)

type registerRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Data  auth.User `json:"data"`
	Token string    `json:"token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := validateStruct(req); errs != nil {
		// Реестр отдаёт только errors, без message (как и раньше).
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}

	user, token, err := a.auth.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": map[string][]string{
					"email": {"The email has already been taken."},
				},
			})
		case errors.Is(err, auth.ErrTokenIssuance):
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"message": "Failed to create token.",
				"error":   err.Error(),
			})
		default:
			obs.Error("register failed", err, map[string]any{"email": req.Email})
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "An error occurred while creating the user.",
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Data: user, Token: token})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := validateStruct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Unknown email and wrong password produce this same body.
			writeMessage(w, http.StatusUnauthorized, "Your credentials are invalid.")
		case errors.Is(err, auth.ErrTokenIssuance):
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"message": "Failed to create token.",
				"error":   err.Error(),
			})
		default:
			obs.Error("login failed", err, map[string]any{"email": req.Email})
			writeMessage(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Data: user, Token: token})
}
