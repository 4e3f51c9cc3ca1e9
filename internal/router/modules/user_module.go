package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-social-network/internal/interface/http"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
)

// UserModule wires profile routes behind the bearer gate.
// Protected: GET/PUT /api/users/profile, GET /api/users/search, GET /api/users/:id
// and, when avatar storage is configured, POST /api/users/profile/avatar.
type UserModule struct {
	Handler       *handlers.UserHandler
	Verifier      middleware.TokenVerifier
	AvatarsActive bool
}

func NewUserModule(h *handlers.UserHandler, verifier middleware.TokenVerifier, avatarsActive bool) *UserModule {
	return &UserModule{Handler: h, Verifier: verifier, AvatarsActive: avatarsActive}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Verifier))
	{
		users.GET("/profile", m.Handler.GetProfile)
		users.PUT("/profile", m.Handler.UpdateProfile)
		if m.AvatarsActive {
			users.POST("/profile/avatar", m.Handler.UploadAvatar)
		}
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.GetUser)
	}
}
