// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-assistant/bot/internal/application/flow"
	"github.com/finance-assistant/bot/internal/integration/entrypoint/dto"
)

// WebhookController receives chat platform updates.
type WebhookController struct {
	engine *flow.Engine
	log    *slog.Logger
}

// NewWebhookController creates a new webhook controller instance.
func NewWebhookController(engine *flow.Engine, log *slog.Logger) *WebhookController {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookController{
		engine: engine,
		log:    log.With("component", "webhook"),
	}
}

// Handle handles POST /webhook requests. The platform only needs a 200; the
// outcome of the update is delivered back through the chat transport, so
// processing failures never surface here.
func (w *WebhookController) Handle(c *gin.Context) {
	var request dto.UpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		w.log.Warn("malformed update", "error", err)
		c.Status(http.StatusOK)
		return
	}

	upd, ok := request.ToFlowUpdate()
	if !ok {
		c.Status(http.StatusOK)
		return
	}

	w.engine.Handle(c.Request.Context(), upd)
	c.Status(http.StatusOK)
}
