package http

import (
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register. New accounts are created
// inactive and receive an emailed verification code.
type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates an inactive account and emails a verification code. Applicants must be 18 or older.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	httpx.Envelope
//	@Failure		400	{object}	httpx.ErrorEnvelope
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		FullName string `json:"fullName"`
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		DoB      string `json:"dob"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.RegistrationService.Register(ctx, service.RegisterInput{
		FullName: req.FullName,
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		DoB:      req.DoB,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			log.Error("register failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	log.Info("user registered", "user_id", user.ID)
	httpx.WriteSuccess(w, http.StatusCreated, "Registration successful, please verify your email", toUserView(user))
}

// VerifyOTPHandler serves POST /v1/auth/verify-otp, activating the account
// when the code matches and is still inside its window.
type VerifyOTPHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *VerifyOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.OTP == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Email and otp are required")
		return
	}

	if err := h.RegistrationService.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("verify otp failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Email verified, your account is now active", nil)
}

// ResendOTPHandler serves POST /v1/auth/resend-otp. The previous code stays
// valid if the replacement cannot be delivered.
type ResendOTPHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *ResendOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Email is required")
		return
	}

	if err := h.RegistrationService.ResendOTP(ctx, req.Email); err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("resend otp failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "A new verification code has been sent", nil)
}
