package router

import (
	"expvar"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/container"
	handlers "github.com/oksasatya/go-social-network/internal/interface/http"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
	"github.com/oksasatya/go-social-network/internal/router/modules"
	"github.com/oksasatya/go-social-network/pkg/response"
	"github.com/oksasatya/go-social-network/pkg/validation"
)

var requestsByStatus = expvar.NewMap("http_requests_by_status")

func countStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestsByStatus.Add(strconv.Itoa(c.Writer.Status()), 1)
	}
}

// InitModules builds services and handlers from the container and registers
// every feature module with the registry.
func InitModules(r *Registry, c *container.Container) {
	appName := c.Config.AppName

	authSvc := application.NewAuthService(c.Users, c.JWT, c.Index, c.Events, c.Logger, appName)
	userSvc := application.NewUserService(c.Users, c.Posts, c.Index, c.Avatars, c.Logger)
	postSvc := application.NewPostService(c.Posts, c.Users, c.Events, c.Logger, appName)

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(c.DB)))
	if !c.Config.IsProduction() {
		r.AddRoot(modules.NewDebugModule())
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, c.Logger), c.JWT, c.Avatars != nil))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, c.Logger), c.JWT))
}

// NewEngine returns a Gin engine with global middleware, every module and the
// 404 fallback installed.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(countStatus())
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))
	if c.Config.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Cannot "+ctx.Request.Method+" "+ctx.Request.URL.RequestURI(), nil)
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	// credentials cannot be combined with a wildcard origin
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
