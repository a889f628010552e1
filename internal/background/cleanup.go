package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/companyportal/backend/internal/services"
)

// CleanupManager periodically prunes long-expired one-time codes from the ledger
type CleanupManager struct {
	otpRepo  services.OTPRepository
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(otpRepo services.OTPRepository, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		otpRepo:  otpRepo,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup removes long-expired codes from the ledger
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.otpRepo.CleanupExpired(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to cleanup expired otps", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("expired otp cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
