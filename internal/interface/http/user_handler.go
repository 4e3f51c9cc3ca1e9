package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/domain/entity"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
	"github.com/oksasatya/go-social-network/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Pointer fields distinguish "absent" from "set to empty".
type updateProfileRequest struct {
	FullName       *string `json:"fullName" binding:"omitempty,max=100"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,max=2048"`
}

// GetProfile handles GET /api/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := middleware.UserID(c)
	p, err := h.Svc.GetProfile(c.Request.Context(), uid, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p.View(true), "profile", nil)
}

// GetUser handles GET /api/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	viewer := middleware.UserID(c)
	target := c.Param("id")
	p, err := h.Svc.GetProfile(c.Request.Context(), target, viewer)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p.View(target == viewer), "profile", nil)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), entity.ProfilePatch{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(u), "profile updated", nil)
}

// UploadAvatar handles POST /api/users/profile/avatar (multipart field "file").
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgValidationFailed, []response.FieldError{{Field: "file", Message: "is required"}})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, application.MsgValidationFailed, []response.FieldError{{Field: "file", Message: "must be an image"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, contentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(u), "avatar updated", nil)
}

// Search handles GET /api/users/search?q=&size=.
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]*application.AuthorView, 0, len(users))
	for _, u := range users {
		out = append(out, application.NewAuthorView(u))
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{"count": len(out)})
}
