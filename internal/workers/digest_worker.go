package workers

import (
	"context"
	"time"

	"devlink_backend/internal/email"
	"devlink_backend/internal/logger"
	"devlink_backend/internal/repositories"
)

// DigestWorker periodically mails users who have unread notifications.
type DigestWorker struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	interval         time.Duration
	baseURL          string
}

func NewDigestWorker(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	interval time.Duration,
	baseURL string,
) *DigestWorker {
	return &DigestWorker{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		interval:         interval,
		baseURL:          baseURL,
	}
}

// Start launches the background loops.
func (w *DigestWorker) Start(ctx context.Context) {
	go w.runDigests(ctx)
	go w.cleanExpiredTokens(ctx)
}

func (w *DigestWorker) runDigests(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("digest", "stopped", nil)
			return
		case <-ticker.C:
			w.sendDigests()
		}
	}
}

func (w *DigestWorker) sendDigests() {
	userIDs, err := w.notificationRepo.UserIDsWithUnread()
	if err != nil {
		logger.WorkerLog("digest", "list users with unread", err)
		return
	}

	sent := 0
	for _, userID := range userIDs {
		if err := w.sendDigestTo(userID); err != nil {
			logger.WorkerLog("digest", "send to "+userID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		logger.Info("digest: run complete", "candidates", len(userIDs), "sent", sent)
	}
}

func (w *DigestWorker) sendDigestTo(userID string) error {
	user, err := w.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	count, err := w.notificationRepo.CountUnread(userID)
	if err != nil {
		return err
	}
	if count == 0 {
		// Read between the listing and now; nothing to send.
		return nil
	}

	name := user.Name
	if name == "" {
		name = user.Handle()
	}
	if name == "" {
		name = user.Email
	}

	return w.emailProvider.SendTemplate(
		[]string{user.Email},
		"Your DevLink digest",
		email.TemplateDigest,
		email.TemplateData{
			"Name":         name,
			"UnreadCount":  int(count),
			"DashboardURL": w.baseURL + "/dashboard",
		},
	)
}

// cleanExpiredTokens prunes expired refresh tokens daily.
func (w *DigestWorker) cleanExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.refreshTokenRepo.CleanExpired(); err != nil {
				logger.WorkerLog("token-cleaner", "clean expired refresh tokens", err)
			}
		}
	}
}
