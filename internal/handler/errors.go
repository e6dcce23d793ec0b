package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/signalsender/internal/command"
	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/payload"
	"github.com/quocanhngo/signalsender/internal/service"
)

// respondError maps service errors onto status codes. Client mistakes get
// 400 with the offending field; everything else is a 500 with fallback as the
// message, and the cause is attached to the gin context for the access log.
func respondError(c *gin.Context, err error, fallback string) {
	var (
		malformed *payload.MalformedSignalError
		invalid   *service.ValidationError
	)
	switch {
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: malformed.Message, Field: malformed.Field})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: invalid.Message, Field: invalid.Field})
	case errors.Is(err, command.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Action must be one of none, buzz_on, buzz_off", Field: "action"})
	case errors.Is(err, command.ErrInvalidDevice):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid device id", Field: "deviceId"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: fallback})
	}
}
