package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and dependency state
type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
	mailer  func() bool
}

// NewHealthHandler creates the handler. ping checks the database; live
// reports whether alert emails go out over SMTP.
func NewHealthHandler(service string, ping func(ctx context.Context) error, live func() bool) *HealthHandler {
	return &HealthHandler{service: service, ping: ping, mailer: live}
}

// Check godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":   "ok",
		"service":  h.service,
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
		"mailer":   "degraded",
	}
	if h.mailer != nil && h.mailer() {
		body["mailer"] = "live"
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
		}
	}

	c.JSON(status, body)
}
