package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/subtle-marketing/account-service/internal/application"
	"github.com/subtle-marketing/account-service/pkg/response"
	"github.com/subtle-marketing/account-service/pkg/validation"
)

// AuthHandler exposes the account flows over the JSON wire contract:
// POST /signup, /login, /forgot-password, /reset-password.
type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Email           string `json:"email" binding:"required"`
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logBindError(c, "signup", err)
		response.Error(c, http.StatusBadRequest, "All fields are required.")
		return
	}

	err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(c, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, application.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "Email already exists.")
		default:
			h.logFlowError(c, "signup", err)
			response.Error(c, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully.", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logBindError(c, "login", err)
		response.Error(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(c, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid email or password.")
		default:
			h.logFlowError(c, "login", err)
			response.Error(c, http.StatusInternalServerError, "Login failed.")
		}
		return
	}

	// Public projection only; the password hash never leaves the server.
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user": gin.H{
			"id":        u.ID,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"email":     u.Email,
		},
	})
}

// ForgotPassword POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logBindError(c, "forgot-password", err)
		response.Error(c, http.StatusBadRequest, "Email required")
		return
	}

	if err := h.Svc.IssueResetCode(c.Request.Context(), req.Email); err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(c, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, application.ErrEmailNotFound):
			response.Error(c, http.StatusNotFound, "Email not registered")
		default:
			h.logFlowError(c, "forgot-password", err)
			response.Error(c, http.StatusInternalServerError, "Error sending OTP")
		}
		return
	}

	response.Success(c, http.StatusOK, "OTP sent to email", nil)
}

// ResetPassword POST /reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logBindError(c, "reset-password", err)
		response.Error(c, http.StatusBadRequest, "All fields required")
		return
	}

	err := h.Svc.ConsumeResetCode(c.Request.Context(), application.ResetInput{
		Email:           req.Email,
		Code:            req.OTP,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error(c, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, application.ErrInvalidCode):
			response.Error(c, http.StatusBadRequest, "Invalid OTP")
		default:
			h.logFlowError(c, "reset-password", err)
			response.Error(c, http.StatusInternalServerError, "Reset failed")
		}
		return
	}

	response.Success(c, http.StatusOK, "Password updated", nil)
}

func (h *AuthHandler) logBindError(c *gin.Context, flow string, err error) {
	h.Logger.WithFields(logrus.Fields{
		"flow":       flow,
		"request_id": c.GetString("request_id"),
		"details":    validation.ToDetails(err),
	}).Debug("request binding failed")
}

func (h *AuthHandler) logFlowError(c *gin.Context, flow string, err error) {
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"flow":       flow,
		"request_id": c.GetString("request_id"),
	}).Error("flow failed")
}
