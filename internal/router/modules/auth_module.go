package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/subtle-marketing/account-service/internal/interface/http"
)

// AuthModule wires the account endpoints of the wire contract:
// POST /signup, /login, /forgot-password, /reset-password.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/forgot-password", m.Handler.ForgotPassword)
	rg.POST("/reset-password", m.Handler.ResetPassword)
}
