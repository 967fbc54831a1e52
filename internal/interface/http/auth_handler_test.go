package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtle-marketing/account-service/config"
	"github.com/subtle-marketing/account-service/internal/application"
	"github.com/subtle-marketing/account-service/internal/domain/entity"
	repo "github.com/subtle-marketing/account-service/internal/domain/repository"
	"github.com/subtle-marketing/account-service/internal/otp"
)

// -------- test fakes --------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	u.ID = "user-1"
	cp := *u
	f.users[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	last string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, text, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = text
	return f.err
}

func (f *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	i := strings.LastIndex(f.last, ": ")
	require.Greater(t, i, 0)
	return f.last[i+2:]
}

// -------- helpers --------

func newTestRouter(mail *fakeSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := application.NewService(
		newFakeUserRepo(),
		otp.NewRegistry(),
		mail,
		nil,
		logger,
		&config.Config{MailSendEnabled: true},
	)
	h := NewAuthHandler(svc, logger)

	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, path string, payload map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func signupJane(t *testing.T, r *gin.Engine) {
	t.Helper()
	w, _ := doJSON(t, r, "/signup", map[string]any{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"email":           "jane@x.com",
		"password":        "longenough1",
		"confirmPassword": "longenough1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

// -------- tests --------

func TestSignupCreated(t *testing.T) {
	r := newTestRouter(&fakeSender{})
	w, body := doJSON(t, r, "/signup", map[string]any{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"email":           "jane@x.com",
		"password":        "longenough1",
		"confirmPassword": "longenough1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully.", body["message"])
}

func TestSignupValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing fields",
			payload:  map[string]any{"email": "jane@x.com"},
			wantCode: http.StatusBadRequest,
			wantMsg:  "All fields are required.",
		},
		{
			name: "password mismatch",
			payload: map[string]any{
				"firstName": "Jane", "lastName": "Doe", "email": "jane@x.com",
				"password": "longenough1", "confirmPassword": "different1",
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Passwords don't match.",
		},
		{
			name: "short password",
			payload: map[string]any{
				"firstName": "Jane", "lastName": "Doe", "email": "jane@x.com",
				"password": "1234567", "confirmPassword": "1234567",
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Password must be at least 8 characters.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&fakeSender{})
			w, body := doJSON(t, r, "/signup", tc.payload)
			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantMsg, body["message"])
			assert.NotContains(t, body, "success")
		})
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	r := newTestRouter(&fakeSender{})
	signupJane(t, r)

	w, body := doJSON(t, r, "/signup", map[string]any{
		"firstName": "Janet", "lastName": "Doe", "email": "JANE@X.COM",
		"password": "longenough2", "confirmPassword": "longenough2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists.", body["message"])
}

func TestLoginReturnsProjectionWithoutHash(t *testing.T) {
	r := newTestRouter(&fakeSender{})
	signupJane(t, r)

	w, body := doJSON(t, r, "/login", map[string]any{
		"email": "jane@x.com", "password": "longenough1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successful", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", user["firstName"])
	assert.Equal(t, "Doe", user["lastName"])
	assert.Equal(t, "jane@x.com", user["email"])
	assert.NotEmpty(t, user["id"])

	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestLoginGenericUnauthorized(t *testing.T) {
	r := newTestRouter(&fakeSender{})
	signupJane(t, r)

	wWrong, bodyWrong := doJSON(t, r, "/login", map[string]any{
		"email": "jane@x.com", "password": "wrongpassword",
	})
	wUnknown, bodyUnknown := doJSON(t, r, "/login", map[string]any{
		"email": "nobody@x.com", "password": "longenough1",
	})

	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	// non-distinguishability: identical body either way
	assert.Equal(t, bodyWrong, bodyUnknown)
}

func TestLoginMissingFields(t *testing.T) {
	r := newTestRouter(&fakeSender{})
	w, body := doJSON(t, r, "/login", map[string]any{"email": "jane@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required.", body["message"])
}

func TestForgotPassword(t *testing.T) {
	mail := &fakeSender{}
	r := newTestRouter(mail)
	signupJane(t, r)

	w, body := doJSON(t, r, "/forgot-password", map[string]any{"email": "jane@x.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP sent to email", body["message"])
	assert.Len(t, mail.lastCode(t), 6)

	w, body = doJSON(t, r, "/forgot-password", map[string]any{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Email not registered", body["message"])
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	mail := &fakeSender{err: assert.AnError}
	r := newTestRouter(mail)
	signupJane(t, r)

	w, body := doJSON(t, r, "/forgot-password", map[string]any{"email": "jane@x.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error sending OTP", body["message"])
}

func TestResetPasswordFlow(t *testing.T) {
	mail := &fakeSender{}
	r := newTestRouter(mail)
	signupJane(t, r)

	w, _ := doJSON(t, r, "/forgot-password", map[string]any{"email": "jane@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.lastCode(t)

	w, body := doJSON(t, r, "/reset-password", map[string]any{
		"email": "jane@x.com", "otp": code,
		"newPassword": "newpass123", "confirmPassword": "newpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated", body["message"])

	// new password logs in, old one does not
	w, _ = doJSON(t, r, "/login", map[string]any{"email": "jane@x.com", "password": "newpass123"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, "/login", map[string]any{"email": "jane@x.com", "password": "longenough1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the code is spent
	w, body = doJSON(t, r, "/reset-password", map[string]any{
		"email": "jane@x.com", "otp": code,
		"newPassword": "another123", "confirmPassword": "another123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP", body["message"])
}

func TestResetPasswordWrongCode(t *testing.T) {
	mail := &fakeSender{}
	r := newTestRouter(mail)
	signupJane(t, r)

	w, _ := doJSON(t, r, "/forgot-password", map[string]any{"email": "jane@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, r, "/reset-password", map[string]any{
		"email": "jane@x.com", "otp": "000000",
		"newPassword": "newpass123", "confirmPassword": "newpass123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP", body["message"])
}

func TestResetPasswordValidation(t *testing.T) {
	r := newTestRouter(&fakeSender{})

	w, body := doJSON(t, r, "/reset-password", map[string]any{"email": "jane@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields required", body["message"])

	w, body = doJSON(t, r, "/reset-password", map[string]any{
		"email": "jane@x.com", "otp": "123456",
		"newPassword": "newpass123", "confirmPassword": "other12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", body["message"])
}
