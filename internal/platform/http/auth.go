package http

import (
	"encoding/json"
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// decodeJSON reads the request body into dst, writing a validation error on
// failure. Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Invalid request body")
		return false
	}
	return true
}

// deviceFromRequest returns the fingerprint derived by the DeviceIdentity
// middleware, falling back to computing it inline.
func deviceFromRequest(r *http.Request) service.DeviceInfo {
	if d, ok := httpx.DeviceFromContext(r.Context()); ok {
		return service.DeviceInfo{ID: d.ID, UserAgent: d.UserAgent, IP: d.IP}
	}
	ua, ip := r.UserAgent(), httpx.ClientIP(r)
	return service.DeviceInfo{
		ID:        httpx.DeviceFingerprint(ua, ip),
		UserAgent: ua,
		IP:        ip,
	}
}

// LoginHandler serves POST /v1/auth/login. The device identity is derived
// from the request; clients cannot choose it. A successful login becomes the
// user's only active session.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Authenticates an email or username plus password and returns an access/refresh token pair.
//	@Description	Logging in evicts any session the user holds on other devices.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope
//	@Failure		400	{object}	httpx.ErrorEnvelope
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		UserName   string `json:"userName"`
		Password   string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	// Accept identifier, email, or userName for the login handle.
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.UserName
	}
	if identifier == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Identifier and password are required")
		return
	}

	device := deviceFromRequest(r)
	user, pair, err := h.AuthService.Login(ctx, identifier, req.Password, device)
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			log.Error("login failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	log.Info("login", "user_id", user.ID, "device_id", device.ID)

	httpx.NoCache(w)
	httpx.WriteSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"user":   toUserView(user),
		"tokens": toTokenView(pair),
	})
}

// RefreshHandler serves POST /v1/auth/refresh-token. The refresh token must
// verify and match a live session on the presenting device.
type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Refresh access token
//	@Description	Mints a new access token when the refresh token matches a live session on the calling device. Device identity is derived server-side from the request; a deviceId in the body is ignored.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope
//	@Failure		403	{object}	httpx.ErrorEnvelope
//	@Router			/v1/auth/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Refresh token is required")
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.RefreshToken, deviceFromRequest(r))
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			log.Error("refresh failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteSuccess(w, http.StatusOK, "Token refreshed", toTokenView(pair))
}

// LogoutHandler serves POST /v1/auth/logout, dropping the session for the
// device named in the bearer token's claims. Idempotent.
type LogoutHandler struct {
	SessionService *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	if err := h.SessionService.Logout(ctx, principal.ID, principal.DeviceID); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Logged out", nil)
}

// LogoutAllHandler serves POST /v1/auth/logout-all, dropping every session
// the user holds, the current device included.
type LogoutAllHandler struct {
	SessionService *service.SessionService
}

func (h *LogoutAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	if err := h.SessionService.LogoutAll(ctx, principal.ID); err != nil {
		slogx.FromContext(ctx).Error("logout all failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Logged out from all devices", nil)
}

// SessionsHandler serves GET /v1/auth/sessions: the caller's live sessions
// without refresh token values.
type SessionsHandler struct {
	SessionService *service.SessionService
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	sessions, err := h.SessionService.ListSessions(ctx, principal.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("list sessions failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "", sessions)
}

// ProfileHandler serves GET /v1/auth/profile for the authenticated user.
type ProfileHandler struct {
	UserService *service.UserService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, principal.ID)
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "", toUserView(user))
}
