package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/globoclima/internal/auth"
	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/service"
)

// AuthHandler exposes registration and login.
//
// DEPENDENCY CHAIN:
//   - authService → existence check, password hash/verify, account create
//   - tokens      → JWT issuance after a successful login
//
// Token issuance lives here, not in the service: the service's contract is
// "are these credentials valid", and the token is how this particular
// boundary represents the answer.
type AuthHandler struct {
	authService *service.AuthService
	tokens      *auth.TokenService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		logger:      logger,
	}
}

// credentialsRequest is the body of both register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued bearer token.
type loginResponse struct {
	Token string `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
//
// 201 on success, 400 on missing fields, 409 when the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("register failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if !result.Success {
		status := http.StatusBadRequest
		errorType := "validation_error"
		if result.Message == service.MsgUserExists {
			status = http.StatusConflict
			errorType = "conflict"
		}
		writeJSON(w, status, ErrorResponse{Error: errorType, Message: result.Message})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": result.Message})
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/auth/login
//
// ACCOUNT ENUMERATION:
// The service distinguishes "user not found" from "incorrect password",
// but this handler deliberately answers both with the same 401 body —
// a different response per case would let anyone probe which emails have
// accounts.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if !result.Success {
		if result.Message == service.MsgInvalidInput {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: result.Message,
			})
			return
		}
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid credentials",
		})
		return
	}

	user, ok := result.Payload.(*model.User)
	if !ok {
		h.logger.Error("login result carried no user payload")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	token, err := h.tokens.Issue(user.Email, user.ID)
	if err != nil {
		h.logger.Error("token issuance failed",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
