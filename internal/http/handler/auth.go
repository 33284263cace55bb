package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"keepsake/internal/auth"
)

type AuthHandler struct {
	Users *auth.Users
	OAuth *auth.OAuthClient
	JWT   *auth.JWT
}

type userDTO struct {
	ID           uint64    `json:"id"`
	OpenID       string    `json:"openId"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	LoginMethod  *string   `json:"loginMethod"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// Callback finishes the external login: code exchange, user upsert, then
// a session cookie and a redirect back to the app.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	id, err := h.OAuth.ExchangeCode(r.Context(), code)
	if err != nil {
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}

	if err := h.Users.Upsert(r.Context(), auth.UpsertInput{
		OpenID:      id.OpenID,
		Name:        id.Name,
		Email:       id.Email,
		LoginMethod: id.LoginMethod,
	}); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	u, err := h.Users.ByOpenID(r.Context(), id.OpenID)
	if err != nil || u == nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL / time.Second),
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Me is public: it reports the current session's user, or null when there
// is no valid session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	uid, ok := h.sessionUserID(r)
	if !ok {
		_, _ = w.Write([]byte("null"))
		return
	}

	u, err := h.Users.ByID(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if u == nil {
		_, _ = w.Write([]byte("null"))
		return
	}

	_ = json.NewEncoder(w).Encode(userDTO{
		ID:           u.ID,
		OpenID:       u.OpenID,
		Name:         u.Name,
		Email:        u.Email,
		LoginMethod:  u.LoginMethod,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		LastSignedIn: u.LastSignedIn,
	})
}

// Logout clears the session cookie unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (h *AuthHandler) sessionUserID(r *http.Request) (uint64, bool) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		return 0, false
	}
	uid, err := h.JWT.Verify(token)
	if err != nil {
		return 0, false
	}
	return uid, true
}
