package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/httpapi"
	"github.com/openhire/jobboard/internal/security/webhook"
	"github.com/openhire/jobboard/internal/service"
)

const maxWebhookBytes = 1 << 20 // 1 MiB

// WebhookHandler receives identity-provider lifecycle events
type WebhookHandler struct {
	verifier       *webhook.Verifier
	webhookService *service.WebhookService
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(verifier *webhook.Verifier, webhookService *service.WebhookService, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookHandler{
		verifier:       verifier,
		webhookService: webhookService,
		logger:         logger,
	}
}

// Receive handles POST /webhooks. The signature is checked over the raw
// body before any JSON decoding happens.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("unable to read request body"))
		return
	}

	if err := h.verifier.Verify(
		r.Header.Get("svix-id"),
		r.Header.Get("svix-timestamp"),
		r.Header.Get("svix-signature"),
		body,
	); err != nil {
		h.logger.Warn("webhook signature rejected", slog.String("error", err.Error()))
		httpapi.Error(w, h.logger, domain.Unauthorized("invalid webhook signature"))
		return
	}

	var event service.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("malformed event payload"))
		return
	}

	if err := h.webhookService.HandleEvent(r.Context(), event); err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, nil, "event processed")
}
