package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-social-network/internal/interface/http"
)

// AuthModule mounts the public credential endpoints:
// POST /api/auth/register, POST /api/auth/login
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/login", m.Handler.Login)
	}
}
