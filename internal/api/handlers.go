package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"wordflip/internal/domain"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type translateResponse struct {
	Translated string `json:"translated"`
}

type addListRequest struct {
	ListTitle string        `json:"listTitle"`
	Words     []domain.Word `json:"words"`
}

type addListResponse struct {
	Saved bool         `json:"saved"`
	ID    string       `json:"id"`
	Doc   *domain.List `json:"doc"`
}

type listsResponse struct {
	Docs []domain.List `json:"docs"`
}

type toggleFavoriteRequest struct {
	Index *float64 `json:"index"`
}

type toggleFavoriteResponse struct {
	OK       bool `json:"ok"`
	Favorite bool `json:"favorite"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return nil
}

// fail maps domain errors to HTTP responses without leaking internals
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: authErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "server error"})
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("User registered", zap.String("username", result.User.Username))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	translated, err := h.listService.Translate(r.Context(), req.Text, req.Target)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{Translated: translated})
}

func (h *Handler) handleAddList(w http.ResponseWriter, r *http.Request) {
	var req addListRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	list, err := h.listService.SaveList(r.Context(), ownerID(r.Context()), req.ListTitle, req.Words)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addListResponse{Saved: true, ID: list.ID, Doc: list})
}

func (h *Handler) handleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listService.GetLists(r.Context(), ownerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listsResponse{Docs: lists})
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	listID := mux.Vars(r)["listId"]

	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index required"})
		return
	}

	index := *req.Index
	if index != math.Trunc(index) || index > math.MaxInt32 || index < math.MinInt32 {
		h.fail(w, r, domain.ErrInvalidIndex)
		return
	}

	favorite, err := h.listService.ToggleFavorite(r.Context(), listID, int(index))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleFavoriteResponse{OK: true, Favorite: favorite})
}
