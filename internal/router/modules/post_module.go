package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-social-network/internal/interface/http"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
)

// PostModule wires the feed routes behind the bearer gate:
// GET /api/posts, POST /api/posts, POST /api/posts/:id/like
type PostModule struct {
	Handler  *handlers.PostHandler
	Verifier middleware.TokenVerifier
}

func NewPostModule(h *handlers.PostHandler, verifier middleware.TokenVerifier) *PostModule {
	return &PostModule{Handler: h, Verifier: verifier}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.Use(middleware.Auth(m.Verifier))
	{
		posts.GET("", m.Handler.List)
		posts.POST("", m.Handler.Create)
		posts.POST("/:id/like", m.Handler.ToggleLike)
	}
}
