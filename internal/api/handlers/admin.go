package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/services"
)

// AdminHandler serves the operator surface: user listings, manual
// window adjustments and game activity.
type AdminHandler struct {
	users *services.UserService
}

func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type adminUserRow struct {
	userPayload
	CurrentTxnRef *string   `json:"current_txn_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	now := time.Now().UTC()
	out := make([]adminUserRow, 0, len(us))
	for _, u := range us {
		out = append(out, adminUserRow{
			userPayload:   toUserPayload(u, now),
			CurrentTxnRef: u.CurrentTxnRef,
			CreatedAt:     u.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminUserRow{
		userPayload:   toUserPayload(u, time.Now().UTC()),
		CurrentTxnRef: u.CurrentTxnRef,
		CreatedAt:     u.CreatedAt,
	})
}

type extendReq struct {
	Days int `json:"days"`
}

func (h *AdminHandler) ExtendUser(w http.ResponseWriter, r *http.Request) {
	var req extendReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}
	if req.Days <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "days must be > 0", nil)
		return
	}
	u, err := h.users.Extend(r.Context(), chi.URLParam(r, "id"), req.Days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminUserRow{
		userPayload:   toUserPayload(u, time.Now().UTC()),
		CurrentTxnRef: u.CurrentTxnRef,
		CreatedAt:     u.CreatedAt,
	})
}

func (h *AdminHandler) ListGameLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.users.ListGameLogs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logs)
}
