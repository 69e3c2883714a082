package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/observability/metrics"
	"github.com/openhire/jobboard/internal/security/audit"
)

// WebhookEvent is an identity-provider lifecycle event, already
// signature-verified by the receiver.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data WebhookUserData `json:"data"`
}

// WebhookUserData mirrors the provider's user payload
type WebhookUserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d WebhookUserData) name() string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return "Unknown User"
	}
	return name
}

func (d WebhookUserData) email() string {
	if len(d.EmailAddresses) > 0 && d.EmailAddresses[0].EmailAddress != "" {
		return d.EmailAddresses[0].EmailAddress
	}
	return fmt.Sprintf("no-email-%s@example.com", d.ID)
}

// WebhookService applies identity-provider lifecycle events to the local
// User cache.
type WebhookService struct {
	userRepo domain.UserRepository
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(userRepo domain.UserRepository, auditLog *audit.Logger, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookService{
		userRepo: userRepo,
		auditLog: auditLog,
		logger:   logger,
	}
}

// HandleEvent dispatches one verified event. Unknown event types are
// logged and acknowledged so future provider events never break delivery.
func (s *WebhookService) HandleEvent(ctx context.Context, event WebhookEvent) error {
	switch event.Type {
	case "user.created":
		return s.userCreated(ctx, event.Data)
	case "user.updated":
		return s.userUpdated(ctx, event.Data)
	case "user.deleted":
		return s.userDeleted(ctx, event.Data)
	default:
		s.logger.Info("ignoring unknown webhook event", slog.String("type", event.Type))
		metrics.ObserveWebhookEvent(event.Type, "ignored")
		return nil
	}
}

func (s *WebhookService) userCreated(ctx context.Context, data WebhookUserData) error {
	if data.ID == "" {
		return domain.BadRequest("event data missing user id")
	}

	user := &domain.User{
		ID:        data.ID,
		Name:      data.name(),
		Email:     data.email(),
		AvatarURL: data.ImageURL,
	}

	// Create is insert-if-absent; a profile already created lazily by a
	// seeker request stays untouched.
	if err := s.userRepo.Create(user); err != nil {
		metrics.ObserveWebhookEvent("user.created", "error")
		return err
	}

	metrics.ObserveWebhookEvent("user.created", "success")
	s.auditLog.LogWebhookEvent(ctx, "user.created", data.ID, "applied")
	s.logger.Info("user created from webhook", slog.String("user_id", data.ID))
	return nil
}

func (s *WebhookService) userUpdated(ctx context.Context, data WebhookUserData) error {
	if data.ID == "" {
		return domain.BadRequest("event data missing user id")
	}

	user, err := s.userRepo.GetByID(data.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Nothing cached locally yet; the lazy sync path will pick the
		// profile up on first interaction.
		metrics.ObserveWebhookEvent("user.updated", "skipped")
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	if name := data.name(); name != user.Name {
		user.Name = name
		changed = true
	}
	if len(data.EmailAddresses) > 0 && data.email() != user.Email {
		user.Email = data.email()
		changed = true
	}
	if data.ImageURL != "" && data.ImageURL != user.AvatarURL {
		user.AvatarURL = data.ImageURL
		changed = true
	}

	if !changed {
		metrics.ObserveWebhookEvent("user.updated", "unchanged")
		return nil
	}

	if err := s.userRepo.Update(user); err != nil {
		metrics.ObserveWebhookEvent("user.updated", "error")
		return err
	}

	metrics.ObserveWebhookEvent("user.updated", "success")
	s.auditLog.LogWebhookEvent(ctx, "user.updated", data.ID, "applied")
	return nil
}

func (s *WebhookService) userDeleted(ctx context.Context, data WebhookUserData) error {
	if data.ID == "" {
		return domain.BadRequest("event data missing user id")
	}

	err := s.userRepo.Delete(data.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.ObserveWebhookEvent("user.deleted", "skipped")
		return nil
	}
	if err != nil {
		metrics.ObserveWebhookEvent("user.deleted", "error")
		return err
	}

	metrics.ObserveWebhookEvent("user.deleted", "success")
	s.auditLog.LogWebhookEvent(ctx, "user.deleted", data.ID, "applied")
	s.logger.Info("user deleted from webhook", slog.String("user_id", data.ID))
	return nil
}
