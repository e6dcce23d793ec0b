package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/signalsender/internal/command"
	"github.com/quocanhngo/signalsender/internal/model"
)

// DeviceHandler exposes the device command mailbox
type DeviceHandler struct {
	commands *command.Channel
}

func NewDeviceHandler(commands *command.Channel) *DeviceHandler {
	return &DeviceHandler{commands: commands}
}

// SetCommand godoc
// @Summary Queue a command for a device
// @Description Replaces any command the device has not picked up yet
// @Tags Devices
// @Accept json
// @Produce json
// @Param deviceId path string true "Device ID"
// @Param body body model.SetCommandRequest true "Command"
// @Success 200 {object} model.DeviceCommand
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/devices/{deviceId}/command [post]
func (h *DeviceHandler) SetCommand(c *gin.Context) {
	var req model.SetCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request body", Field: "action"})
		return
	}

	cmd, err := h.commands.SetCommand(c.Request.Context(), c.Param("deviceId"), req.Action)
	if err != nil {
		respondError(c, err, "Failed to queue command")
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// Poll godoc
// @Summary Take the pending command
// @Description Returns the pending command and clears it. {"action":"none","createdAt":0} when nothing is pending.
// @Tags Devices
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} model.DeviceCommand
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/devices/{deviceId}/command [get]
func (h *DeviceHandler) Poll(c *gin.Context) {
	cmd, err := h.commands.Consume(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		respondError(c, err, "Failed to fetch command")
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// Peek godoc
// @Summary Look at the pending command
// @Description Same as the poll endpoint but leaves the command in place
// @Tags Devices
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} model.DeviceCommand
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/devices/{deviceId}/command/peek [get]
func (h *DeviceHandler) Peek(c *gin.Context) {
	cmd, err := h.commands.Peek(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		respondError(c, err, "Failed to fetch command")
		return
	}
	c.JSON(http.StatusOK, cmd)
}
