package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, actorType, actorID, action, resource, resourceID, status string) {
	al.logger.Info("audit",
		slog.String("actor_type", actorType),
		slog.String("actor_id", actorID),
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogRegistration(ctx context.Context, companyID, status string) {
	al.LogAction(ctx, "company", companyID, "register", "company", companyID, status)
}

func (al *Logger) LogLogin(ctx context.Context, companyID, status string) {
	al.LogAction(ctx, "company", companyID, "login", "company", companyID, status)
}

func (al *Logger) LogJobPosted(ctx context.Context, companyID, jobID string) {
	al.LogAction(ctx, "company", companyID, "post", "job", jobID, "created")
}

func (al *Logger) LogStatusChange(ctx context.Context, companyID, applicationID, status string) {
	al.LogAction(ctx, "company", companyID, "change_status", "application", applicationID, status)
}

func (al *Logger) LogVisibilityToggle(ctx context.Context, companyID, jobID, status string) {
	al.LogAction(ctx, "company", companyID, "toggle_visibility", "job", jobID, status)
}

func (al *Logger) LogWebhookEvent(ctx context.Context, eventType, userID, status string) {
	al.LogAction(ctx, "provider", "webhook", eventType, "user", userID, status)
}
