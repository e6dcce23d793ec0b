package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/service"
)

// maxSignalBytes caps a hardware payload; real ones are a few dozen bytes
const maxSignalBytes = 64 << 10

// AlertHandler handles hardware signal ingestion and the alert log
type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// Receive godoc
// @Summary Ingest a door signal
// @Description Accepts a JSON object {"door_status","alert","duration"} or a delimited line "status:alert[:duration]". Alerts notify the active recipient.
// @Tags Alerts
// @Accept json
// @Accept plain
// @Produce json
// @Param body body model.Signal true "Door signal"
// @Success 200 {object} model.AlertAcceptedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/door-alert [post]
func (h *AlertHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSignalBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Message: "Signal payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Unable to read request body"})
		return
	}

	if _, err := h.alertService.Ingest(c.Request.Context(), raw); err != nil {
		respondError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, model.AlertAcceptedResponse{Success: true, Message: "Signal processed"})
}

// ListLogs godoc
// @Summary List alert logs
// @Description Every ingested signal, newest first
// @Tags Alerts
// @Produce json
// @Success 200 {array} model.AlertLog
// @Failure 500 {object} model.ErrorResponse
// @Router /api/logs [get]
func (h *AlertHandler) ListLogs(c *gin.Context) {
	logs, err := h.alertService.Logs(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch logs. Check database connection.")
		return
	}
	c.JSON(http.StatusOK, logs)
}
