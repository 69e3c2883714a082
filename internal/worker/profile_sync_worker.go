package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/observability/metrics"
)

// ProfileSyncWorker periodically reconciles the stalest cached user
// profiles with the identity provider, so profiles of inactive seekers do
// not drift indefinitely between webhook deliveries.
type ProfileSyncWorker struct {
	userRepo  domain.UserRepository
	identity  domain.IdentityProvider
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewProfileSyncWorker creates a new profile sync worker
func NewProfileSyncWorker(
	userRepo domain.UserRepository,
	identity domain.IdentityProvider,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *ProfileSyncWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &ProfileSyncWorker{
		userRepo:  userRepo,
		identity:  identity,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start runs the sync loop until the context is cancelled
func (w *ProfileSyncWorker) Start(ctx context.Context) {
	w.logger.Info("profile sync worker started",
		slog.Duration("interval", w.interval),
		slog.Int("batch_size", w.batchSize),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("profile sync worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ProfileSyncWorker) runOnce(ctx context.Context) {
	cutoff := time.Now().Add(-w.interval)
	users, err := w.userRepo.ListSyncedBefore(cutoff, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list stale profiles", slog.String("error", err.Error()))
		return
	}

	for _, user := range users {
		if err := w.syncOne(ctx, user); err != nil {
			w.logger.Warn("profile sync failed",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			metrics.ObserveProfileSync("worker", "error")
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}

	if len(users) > 0 {
		w.logger.Info("profile sync pass complete", slog.Int("count", len(users)))
	}
}

func (w *ProfileSyncWorker) syncOne(ctx context.Context, user *domain.User) error {
	profile, err := w.identity.FetchUser(ctx, user.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Deleted at the provider but the deletion webhook never arrived.
		metrics.ObserveProfileSync("worker", "deleted")
		w.logger.Info("removing user deleted at provider", slog.String("user_id", user.ID))
		return w.userRepo.Delete(user.ID)
	}
	if err != nil {
		return err
	}

	if user.Name == profile.Name && user.Email == profile.Email && user.AvatarURL == profile.AvatarURL {
		metrics.ObserveProfileSync("worker", "unchanged")
		return w.userRepo.MarkSynced(user.ID)
	}

	user.Name = profile.Name
	user.Email = profile.Email
	user.AvatarURL = profile.AvatarURL
	if err := w.userRepo.Update(user); err != nil {
		return err
	}

	metrics.ObserveProfileSync("worker", "updated")
	return nil
}
