package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/auth"
	"github.com/apexeduai/vault-backend/internal/cache"
	"github.com/apexeduai/vault-backend/internal/middleware"
	"github.com/apexeduai/vault-backend/internal/services"
)

type AuthHandler struct {
	redeemer *services.RedemptionService
	users    *services.UserService
	tm       *auth.TokenManager
	cache    *cache.Cache

	tokenTTL      time.Duration
	loginAttempts int
	loginWindow   time.Duration
}

func NewAuthHandler(redeemer *services.RedemptionService, users *services.UserService,
	tm *auth.TokenManager, c *cache.Cache, tokenTTL time.Duration,
	loginAttempts int, loginWindow time.Duration) *AuthHandler {
	return &AuthHandler{
		redeemer:      redeemer,
		users:         users,
		tm:            tm,
		cache:         c,
		tokenTTL:      tokenTTL,
		loginAttempts: loginAttempts,
		loginWindow:   loginWindow,
	}
}

type loginReq struct {
	PhoneNumber   string `json:"phone_number"`
	TransactionID string `json:"transaction_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Institution   string `json:"institution"`
	Password      string `json:"password"`
}

type loginResp struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        userPayload `json:"user"`
}

// Login redeems a transaction reference into an access window and
// returns a bearer token clamped to it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	throttleKey := "login:" + strings.TrimSpace(req.PhoneNumber)
	if !h.cache.Allow(r.Context(), throttleKey, h.loginAttempts, h.loginWindow) {
		httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts, try again later", nil)
		return
	}

	grant, err := h.redeemer.Redeem(r.Context(), req.PhoneNumber, req.TransactionID, services.Profile{
		FullName:    req.FullName,
		Email:       req.Email,
		Institution: req.Institution,
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, expiresAt, err := h.tm.Issue(grant.User, h.tokenTTL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResp{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        toUserPayload(grant.User, time.Now().UTC()),
	})
}

// Me returns the profile behind the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserPayload(u, time.Now().UTC()))
}

// UploadAvatar replaces the caller's avatar image.
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "expected multipart form data", nil)
		return
	}
	name, contentType, data, found, err := formFile(r, "file", 5<<20)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "file field is required", nil)
		return
	}

	updated, err := h.users.UpdateAvatar(r.Context(), u, name, contentType, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"avatar_url": updated.AvatarURL})
}

type gameLogReq struct {
	GameTitle string `json:"game_title"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// GameLog records one answered practice-game question.
func (h *AuthHandler) GameLog(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user context", nil)
		return
	}
	var req gameLogReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}
	if strings.TrimSpace(req.GameTitle) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "game_title is required", nil)
		return
	}
	if err := h.users.LogGame(r.Context(), u.ID, req.GameTitle, req.Question, req.Answer); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"status": "logged"})
}
