package http

import (
	"errors"
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/jwtx"
)

// mapServiceError translates service sentinel errors into typed API errors.
// Unknown errors become an opaque 500; the caller is expected to log them.
//
// Login failures keep their historically distinct messages for unknown user
// vs wrong password. NotFound always outranks Forbidden so probing an id you
// cannot access looks identical to probing one that does not exist.
func mapServiceError(err error) *httpx.APIError {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeAuthentication, "User not found")
	case errors.Is(err, service.ErrIncorrectPassword):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeAuthentication, "Incorrect password")
	case errors.Is(err, service.ErrAccountInactive):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeAuthentication, "Please verify your email to activate your account")

	case errors.Is(err, service.ErrSessionInvalid):
		return httpx.NewAPIError(http.StatusForbidden, httpx.TypeSession, "Session is invalid or expired, please login again")

	case errors.Is(err, jwtx.ErrExpired):
		return httpx.NewAPIError(http.StatusForbidden, httpx.TypeToken, "Refresh token expired, please login again")
	case errors.Is(err, jwtx.ErrMalformed),
		errors.Is(err, jwtx.ErrInvalidSig),
		errors.Is(err, jwtx.ErrAlgMismatch),
		errors.Is(err, jwtx.ErrIssuer),
		errors.Is(err, jwtx.ErrAudience),
		errors.Is(err, jwtx.ErrNotYetValid):
		return httpx.NewAPIError(http.StatusForbidden, httpx.TypeToken, "Invalid refresh token")

	case errors.Is(err, service.ErrAlreadyRegistered):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Email or username is already registered")
	case errors.Is(err, service.ErrAlreadyVerified):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Email is already verified")
	case errors.Is(err, service.ErrOTPInvalid):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Invalid verification code")
	case errors.Is(err, service.ErrOTPExpired):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Verification code has expired, please request a new one")

	case errors.Is(err, service.ErrSubdomainTaken):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Subdomain is already taken")
	case errors.Is(err, service.ErrInvalidSubdomain):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Invalid subdomain")
	case errors.Is(err, service.ErrInvalidCoordinates):
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, "Invalid coordinates")

	case errors.Is(err, service.ErrSiteNotFound):
		return httpx.NewAPIError(http.StatusNotFound, httpx.TypeNotFound, "Site not found")
	case errors.Is(err, service.ErrArticleNotFound):
		return httpx.NewAPIError(http.StatusNotFound, httpx.TypeNotFound, "Article not found")
	case errors.Is(err, service.ErrMapNotFound):
		return httpx.NewAPIError(http.StatusNotFound, httpx.TypeNotFound, "Map not found")
	}

	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return httpx.NewAPIError(http.StatusBadRequest, httpx.TypeValidation, vErr.Error())
	}

	return httpx.NewAPIError(http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
}
