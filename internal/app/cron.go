package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/athar-archive/core/internal/modules/auth"
	"github.com/athar-archive/core/internal/modules/storage/upload"
	pkgcron "github.com/athar-archive/core/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, uploads *upload.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")
	authSvc := auth.NewService(db)

	sched.Register(pkgcron.Job{
		Name:        "cleanup_sessions",
		Description: "Purge revoked and long-idle login sessions",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := authSvc.CleanupRevokedSessions(30 * 24 * time.Hour)
			if err != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("session cleanup done, %d rows removed", n))
			return nil
		},
	})

	if uploads != nil {
		sched.Register(pkgcron.Job{
			Name:        "sweep_orphan_uploads",
			Description: "Delete uploaded objects that were never attached to content",
			Interval:    24 * time.Hour,
			Fn: func(ctx context.Context) error {
				n, err := uploads.SweepOrphans(ctx, 24*time.Hour)
				if err != nil {
					cronLogger.Warn("orphan sweep failed", zap.Error(err))
					return err
				}
				cronLogger.Info(fmt.Sprintf("orphan sweep done, %d objects removed", n))
				return nil
			},
		})
	}
}
