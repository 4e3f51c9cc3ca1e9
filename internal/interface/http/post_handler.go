package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
	"github.com/oksasatya/go-social-network/pkg/response"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,max=2048"`
}

// List handles GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, application.NewPostViews(posts), "posts", map[string]any{"count": len(posts)})
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), application.CreatePostInput{
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, application.NewPostView(p), "post created", nil)
}

// ToggleLike handles POST /api/posts/:id/like.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	res, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	msg := "post unliked"
	if res.Liked {
		msg = "post liked"
	}
	response.Success(c, http.StatusOK, application.LikeView{Liked: res.Liked, LikesCount: res.LikesCount}, msg, nil)
}
