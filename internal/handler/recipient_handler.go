package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/service"
)

// RecipientHandler handles alert recipient endpoints
type RecipientHandler struct {
	recipientService *service.RecipientService
}

func NewRecipientHandler(recipientService *service.RecipientService) *RecipientHandler {
	return &RecipientHandler{recipientService: recipientService}
}

// Register godoc
// @Summary Register the alert email
// @Description The newest registration becomes the active recipient
// @Tags Recipients
// @Accept json
// @Produce json
// @Param body body model.RegisterEmailRequest true "Recipient email"
// @Success 200 {object} model.Recipient
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/register-email [post]
func (h *RecipientHandler) Register(c *gin.Context) {
	var req model.RegisterEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request body", Field: "email"})
		return
	}

	recipient, err := h.recipientService.Register(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err, "Failed to register email. Check database connection.")
		return
	}
	c.JSON(http.StatusOK, recipient)
}

// GetActive godoc
// @Summary Get the active alert email
// @Tags Recipients
// @Produce json
// @Success 200 {object} model.Recipient
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/email [get]
func (h *RecipientHandler) GetActive(c *gin.Context) {
	recipient, err := h.recipientService.Active(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch recipient. Check database connection.")
		return
	}
	if recipient == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: "No email registered"})
		return
	}
	c.JSON(http.StatusOK, recipient)
}

// History godoc
// @Summary List every registered email
// @Tags Recipients
// @Produce json
// @Success 200 {array} model.Recipient
// @Failure 500 {object} model.ErrorResponse
// @Router /api/recipients [get]
func (h *RecipientHandler) History(c *gin.Context) {
	recipients, err := h.recipientService.History(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch recipients. Check database connection.")
		return
	}
	c.JSON(http.StatusOK, recipients)
}
