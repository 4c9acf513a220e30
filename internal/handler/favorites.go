package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/globoclima/internal/auth"
	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/service"
)

// FavoritesHandler exposes the favorite-cities collection.
//
// All three routes sit behind RequireAuth; the user is identified by the
// verified token's subject email, never by anything in the request body —
// a caller can only ever touch their own list.
type FavoritesHandler struct {
	favorites *service.FavoritesService
	logger    *slog.Logger
}

// NewFavoritesHandler creates a FavoritesHandler.
func NewFavoritesHandler(favorites *service.FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// HandleAdd adds a city to the caller's favorites.
//
// HTTP: POST /api/cities/favorites
// Auth: required
//
// 200 on success, 400 on a missing city name, 409 when the city is
// already a favorite.
func (h *FavoritesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't trust route wiring.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var city model.FavoriteCity
	if err := json.NewDecoder(r.Body).Decode(&city); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	result, err := h.favorites.Add(r.Context(), identity.Email, city)
	if err != nil {
		h.logger.Error("add favorite failed",
			slog.String("email", identity.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	if !result.Success {
		status := http.StatusBadRequest
		errorType := "validation_error"
		if result.Message == service.MsgCityAlreadyFavorite {
			status = http.StatusConflict
			errorType = "conflict"
		}
		writeJSON(w, status, ErrorResponse{Error: errorType, Message: result.Message})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleList returns the caller's favorite cities.
//
// HTTP: GET /api/cities/favorites
// Auth: required
//
// An empty list is a normal 200 with [], not a 404 — having no favorites
// is a valid state.
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	cities, err := h.favorites.List(r.Context(), identity.Email)
	if err != nil {
		h.logger.Error("list favorites failed",
			slog.String("email", identity.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cities)
}

// HandleRemove deletes a city from the caller's favorites.
//
// HTTP: DELETE /api/cities/favorites/{cityName}
// Auth: required
//
// 200 on success, 404 when the caller has no favorites or the city isn't
// among them.
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	// City names may contain spaces and unicode; the router keeps them
	// percent-encoded in the path parameter.
	cityName := chi.URLParam(r, "cityName")
	if decoded, err := url.PathUnescape(cityName); err == nil {
		cityName = decoded
	}

	result, err := h.favorites.Remove(r.Context(), identity.Email, cityName)
	if err != nil {
		h.logger.Error("remove favorite failed",
			slog.String("email", identity.Email),
			slog.String("city", cityName),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	if !result.Success {
		status := http.StatusNotFound
		errorType := "not_found"
		if result.Message == service.MsgCityNameRequired || result.Message == service.MsgInvalidInput {
			status = http.StatusBadRequest
			errorType = "validation_error"
		}
		writeJSON(w, status, ErrorResponse{Error: errorType, Message: result.Message})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
