package http

import (
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// UserHandler serves the /v1/users routes. Route middleware restricts reads
// and writes to the user themselves or a superAdmin.
type UserHandler struct {
	UserService *service.UserService
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toUserView(user))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		FullName     string `json:"fullName"`
		Phone        string `json:"phone"`
		ProfileImage string `json:"profileImage"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, r.PathValue("id"), service.UpdateProfileInput{
		FullName:     req.FullName,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("update profile failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Profile updated", toUserView(user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list users failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toUserViews(users))
}
