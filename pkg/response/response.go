package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// FieldError is one field-level violation reported in the errors array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIResponse[T any] struct {
	Status    int          `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	RequestID string       `json:"request_id,omitempty"`
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Data      T            `json:"data"`
	Meta      interface{}  `json:"meta,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope, aborts the handler chain and returns the envelope.
func Error(ctx *gin.Context, status int, message string, errs []FieldError) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Errors:    errs,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
