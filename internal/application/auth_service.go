// Package application implements the account flows: registration,
// credential verification, and the OTP-driven password reset.
package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/subtle-marketing/account-service/config"
	"github.com/subtle-marketing/account-service/internal/domain/entity"
	repo "github.com/subtle-marketing/account-service/internal/domain/repository"
	"github.com/subtle-marketing/account-service/internal/otp"
	"github.com/subtle-marketing/account-service/pkg/helpers"
	"github.com/subtle-marketing/account-service/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrEmailNotFound surfaces account existence on the forgot-password
	// path. Intentionally not harmonized with ErrInvalidCredentials.
	ErrEmailNotFound      = errors.New("email not registered")
	ErrInvalidCode        = errors.New("invalid or expired reset code")
	ErrNotificationFailed = errors.New("reset code delivery failed")
)

// ValidationError carries a client-fixable reason. The reason string is
// safe to return verbatim in a response body.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(reason string) error { return &ValidationError{Reason: reason} }

const minPasswordLen = 8

// Service is the auth flow engine. It owns no persistent state: user
// rows live behind Repo, pending reset codes in the in-memory Codes
// registry (lost on restart), and mail goes out through Mail.
type Service struct {
	Repo   repo.UserRepository
	Codes  *otp.Registry
	Mail   mailer.Sender
	Pub    *helpers.RabbitPublisher // optional, for async welcome mail
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewService(r repo.UserRepository, codes *otp.Registry, mail mailer.Sender, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *Service {
	return &Service{Repo: r, Codes: codes, Mail: mail, Pub: pub, Logger: logger, Cfg: cfg}
}

// NormalizeEmail lowercases and trims an email for use as the canonical
// lookup key. The client normalizes too, but this is the authoritative
// pass.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new account. Validation order: presence, password
// confirmation, minimum length, email uniqueness. The store's unique
// constraint remains the final word on uniqueness; the lookup here only
// gives a friendlier fast path.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return validationErr("All fields are required.")
	}
	if in.Password != in.ConfirmPassword {
		return validationErr("Passwords don't match.")
	}
	if len(in.Password) < minPasswordLen {
		return validationErr("Password must be at least 8 characters.")
	}

	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return err
	}

	u := &entity.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}

	s.enqueueWelcome(ctx, u)
	return nil
}

// Authenticate verifies email/password and returns the user. Unknown
// email and wrong password produce the identical error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationErr("Email and password are required.")
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueResetCode generates a 6-digit code for the account, records it as
// the only pending code for that email, and delivers it by mail. If
// delivery fails the registry entry is rolled back so no code dangles
// behind a reported failure; the rollback is match-guarded and cannot
// remove a newer code issued concurrently.
func (s *Service) IssueResetCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return validationErr("Email required")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	code, err := helpers.GenResetCode()
	if err != nil {
		return err
	}
	s.Codes.Put(email, code)

	if s.Cfg != nil && !s.Cfg.MailSendEnabled {
		s.Logger.WithField("email", email).Debug("mail sending disabled, reset code kept pending")
		return nil
	}

	subject, text := mailer.ResetCodeEmail(code)
	if err := s.Mail.Send(ctx, email, subject, text, ""); err != nil {
		s.Codes.DeleteIfMatch(email, code)
		s.Logger.WithError(err).WithField("email", email).Error("reset code delivery failed")
		return ErrNotificationFailed
	}
	return nil
}

type ResetInput struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// ConsumeResetCode redeems a pending code and installs the new password.
// Consumption is the atomic step: the registry verifies and deletes the
// code under one lock, so a given code is redeemed at most once and a
// racing second caller sees the generic invalid-code error. The password
// update is the last, visible commit; a failed update burns the code,
// which is acceptable because the caller can always request a fresh one.
func (s *Service) ConsumeResetCode(ctx context.Context, in ResetInput) error {
	in.Email = NormalizeEmail(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	if in.Email == "" || in.Code == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return validationErr("All fields required")
	}
	if in.NewPassword != in.ConfirmPassword {
		return validationErr("Passwords do not match")
	}

	if !s.Codes.Consume(in.Email, in.Code) {
		return ErrInvalidCode
	}

	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePasswordHash(ctx, in.Email, hash); err != nil {
		s.Logger.WithError(err).WithField("email", in.Email).Error("password update failed after code consumption")
		return err
	}
	return nil
}

// enqueueWelcome publishes the post-signup greeting for the email worker.
// Best effort: a broker hiccup never affects the registration result.
func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || (s.Cfg != nil && !s.Cfg.MailSendEnabled) {
		return
	}
	subject, text := mailer.WelcomeEmail(u.FirstName)
	job := mailer.EmailJob{To: u.Email, Subject: subject, Text: text}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to enqueue welcome email")
	}
}
