package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/openhire/jobboard/internal/security/audit"
)

func newWebhookService(t *testing.T) (*WebhookService, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	svc := NewWebhookService(users, audit.NewLogger(slog.Default()), nil)
	return svc, users
}

func userData(id, first, last, email, image string) WebhookUserData {
	data := WebhookUserData{ID: id, FirstName: first, LastName: last, ImageURL: image}
	if email != "" {
		data.EmailAddresses = []struct {
			EmailAddress string `json:"email_address"`
		}{{EmailAddress: email}}
	}
	return data
}

func TestWebhookUserCreated(t *testing.T) {
	svc, users := newWebhookService(t)
	ctx := context.Background()

	event := WebhookEvent{Type: "user.created", Data: userData("ext-1", "Ada", "Lovelace", "ada@example.com", "https://img/ada")}
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("user.created failed: %v", err)
	}

	user, err := users.GetByID("ext-1")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Name != "Ada Lovelace" || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// Redelivery is idempotent
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("redelivered user.created failed: %v", err)
	}
}

func TestWebhookUserCreatedFallbacks(t *testing.T) {
	svc, users := newWebhookService(t)
	ctx := context.Background()

	// No name parts and no email addresses
	event := WebhookEvent{Type: "user.created", Data: userData("ext-2", "", "", "", "")}
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("user.created failed: %v", err)
	}

	user, _ := users.GetByID("ext-2")
	if user.Name != "Unknown User" {
		t.Fatalf("expected placeholder name, got %q", user.Name)
	}
	if user.Email != "no-email-ext-2@example.com" {
		t.Fatalf("expected placeholder email, got %q", user.Email)
	}

	// Missing user id is rejected
	if err := svc.HandleEvent(ctx, WebhookEvent{Type: "user.created"}); err == nil {
		t.Fatalf("expected error for event without user id")
	}
}

func TestWebhookUserUpdated(t *testing.T) {
	svc, users := newWebhookService(t)
	ctx := context.Background()

	// Update for a user we never cached is acknowledged and skipped
	event := WebhookEvent{Type: "user.updated", Data: userData("ext-1", "Ada", "King", "ada@example.com", "")}
	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("update for unknown user must be skipped, got %v", err)
	}
	if _, err := users.GetByID("ext-1"); err == nil {
		t.Fatalf("skipped update must not create a user")
	}

	created := WebhookEvent{Type: "user.created", Data: userData("ext-1", "Ada", "Lovelace", "ada@example.com", "https://img/a")}
	if err := svc.HandleEvent(ctx, created); err != nil {
		t.Fatalf("user.created failed: %v", err)
	}

	if err := svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("user.updated failed: %v", err)
	}
	user, _ := users.GetByID("ext-1")
	if user.Name != "Ada King" {
		t.Fatalf("expected updated name, got %q", user.Name)
	}
	// Fields absent from the event keep their cached value
	if user.AvatarURL != "https://img/a" {
		t.Fatalf("avatar must survive an update without image_url, got %q", user.AvatarURL)
	}
}

func TestWebhookUserDeleted(t *testing.T) {
	svc, users := newWebhookService(t)
	ctx := context.Background()

	created := WebhookEvent{Type: "user.created", Data: userData("ext-1", "Ada", "Lovelace", "ada@example.com", "")}
	if err := svc.HandleEvent(ctx, created); err != nil {
		t.Fatalf("user.created failed: %v", err)
	}

	deleted := WebhookEvent{Type: "user.deleted", Data: WebhookUserData{ID: "ext-1"}}
	if err := svc.HandleEvent(ctx, deleted); err != nil {
		t.Fatalf("user.deleted failed: %v", err)
	}
	if _, err := users.GetByID("ext-1"); err == nil {
		t.Fatalf("user must be gone after deletion")
	}

	// Redelivery after deletion is acknowledged
	if err := svc.HandleEvent(ctx, deleted); err != nil {
		t.Fatalf("redelivered user.deleted must be skipped, got %v", err)
	}
}

func TestWebhookUnknownEventType(t *testing.T) {
	svc, _ := newWebhookService(t)

	event := WebhookEvent{Type: "organization.created", Data: WebhookUserData{ID: "org-1"}}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown event types must be acknowledged, got %v", err)
	}
}
