package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/cryptox"
	"github.com/sou2aq/platform/pkg/idx"
	"github.com/sou2aq/platform/pkg/mailx"
)

// Verification codes expire quickly; the resend endpoint exists for a reason.
const DefaultOTPTTL = 90 * time.Second

var (
	ErrAlreadyRegistered = errors.New("already_registered")
	ErrAlreadyVerified   = errors.New("already_verified")
	ErrOTPInvalid        = errors.New("otp_invalid")
	ErrOTPExpired        = errors.New("otp_expired")
)

// ValidationError wraps field-level failures from input validation so
// handlers can report them as a 400 without inspecting validator internals.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed on " + e.Field + ": " + e.Reason
}

// RegisterInput is the registration payload. Users under 18 are rejected at
// validation time; no row is created for them.
type RegisterInput struct {
	FullName string `validate:"required,min=2,max=100"`
	UserName string `validate:"required,alphanum,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	DoB      string `validate:"required,datetime=2006-01-02,adult"`
	Phone    string `validate:"omitempty,e164"`

	// Role may be "user" or "admin"; anything else falls back to "user".
	// superAdmin accounts are never self-registered.
	Role string `validate:"omitempty"`
}

func registrationRole(requested string) string {
	switch requested {
	case domain.RoleUser, domain.RoleAdmin:
		return requested
	default:
		return domain.RoleUser
	}
}

// RegistrationService creates accounts and walks them through email
// verification. New accounts stay inactive until a code is confirmed.
type RegistrationService struct {
	Store  store.Store
	Mailer mailx.Sender
	Logger *slog.Logger

	// OTPTTL defaults to DefaultOTPTTL when zero.
	OTPTTL time.Duration

	validate *validator.Validate
}

func NewRegistrationService(st store.Store, mailer mailx.Sender, logger *slog.Logger) *RegistrationService {
	v := validator.New(validator.WithRequiredStructEnabled())

	// "adult": date of birth at least 18 years back from today.
	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		dob, err := time.Parse("2006-01-02", fl.Field().String())
		if err != nil {
			return false
		}
		return !dob.After(time.Now().AddDate(-18, 0, 0))
	})

	return &RegistrationService{
		Store:    st,
		Mailer:   mailer,
		Logger:   logger,
		validate: v,
	}
}

func (s *RegistrationService) otpTTL() time.Duration {
	if s.OTPTTL <= 0 {
		return DefaultOTPTTL
	}
	return s.OTPTTL
}

// Register validates the input, creates an inactive user, and emails a
// verification code. The email is sent outside the transaction; a delivery
// failure is logged but the account still exists and can request a resend.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.User{}, &ValidationError{
				Field:  fieldErrs[0].Field(),
				Reason: fieldErrs[0].Tag(),
			}
		}
		return domain.User{}, err
	}

	taken, err := s.Store.Users().ExistsByEmailOrUserName(ctx, in.Email, in.UserName)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, ErrAlreadyRegistered
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	otpExpiry := now.Add(s.otpTTL())
	user := domain.User{
		ID:                idx.New().String(),
		FullName:          in.FullName,
		UserName:          in.UserName,
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              registrationRole(in.Role),
		DoB:               in.DoB,
		Phone:             in.Phone,
		IsActive:          domain.ActiveNo,
		EmailOTP:          &code,
		EmailOTPExpiresAt: &otpExpiry,
		CreatedAt:         now,
		ModifiedAt:        now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Raced with another registration between the exists check
			// and the insert.
			return domain.User{}, ErrAlreadyRegistered
		}
		return domain.User{}, err
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Mailer.SendOTP(sendCtx, user.Email, user.UserName, code); err != nil {
			s.Logger.Error("verification email failed", "user_id", user.ID, "err", err)
		}
	}()

	return user, nil
}

// VerifyOTP confirms the emailed code. On success the account is activated
// and the code consumed; a code can never be used twice.
func (s *RegistrationService) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailVerifiedAt != nil {
		return ErrAlreadyVerified
	}
	if user.EmailOTP == nil || *user.EmailOTP != code {
		return ErrOTPInvalid
	}
	if user.EmailOTPExpiresAt == nil || time.Now().After(*user.EmailOTPExpiresAt) {
		return ErrOTPExpired
	}

	return s.Store.Users().MarkEmailVerified(ctx, email)
}

// ResendOTP issues a replacement code. The store write and the email send
// share a transaction: if the email cannot be sent the new code is rolled
// back, leaving any previous one in place.
func (s *RegistrationService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailVerifiedAt != nil {
		return ErrAlreadyVerified
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetOTP(ctx, user.ID, code, time.Now().UTC().Add(s.otpTTL())); err != nil {
			return err
		}
		return s.Mailer.SendOTP(ctx, user.Email, user.UserName, code)
	})
}
