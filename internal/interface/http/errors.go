package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/interface/middleware"
	"github.com/oksasatya/go-social-network/pkg/helpers"
	"github.com/oksasatya/go-social-network/pkg/response"
	"github.com/oksasatya/go-social-network/pkg/validation"
)

const msgInternal = "internal server error"

// respondError writes err as an envelope. Application errors keep their kind
// and message; anything else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	ae, ok := application.AsError(err)
	if !ok || ae.Kind == application.KindInternal {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"ip":         middleware.ClientIP(c),
		})
		response.Error(c, http.StatusInternalServerError, msgInternal, nil)
		return
	}
	response.Error(c, ae.Kind.Status(), ae.Message, ae.Details)
}

// respondBindError reports a request body that failed decoding or validation.
func respondBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, application.MsgValidationFailed, validation.ToDetails(err))
}
