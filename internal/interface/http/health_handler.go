package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health handles GET /health. It always answers 200.
func (h *HealthHandler) Health(c *gin.Context) {
	db := "disconnected"
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err == nil {
			db = "connected"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": db})
}
