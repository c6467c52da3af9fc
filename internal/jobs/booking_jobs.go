package jobs

import (
	"context"

	"rentloop-backend/internal/logger"
)

const expireBatchSize = 100

// ExpireApprovalDeadlines cancels pending_payment bookings whose owner never
// responded before the approval deadline. Each expiry voids the payment
// authorization, frees the date holds and notifies the renter.
func (jr *JobRunner) ExpireApprovalDeadlines() {
	jr.runWithRecovery("ExpireApprovalDeadlines", func() {
		ctx := context.Background()
		expired, err := jr.bookings.ExpireOverdueApprovals(ctx, expireBatchSize)
		if err != nil {
			logger.Error("Failed to expire overdue approvals", "error", err)
			return
		}
		if expired > 0 {
			logger.Info("Expired overdue booking approvals", "count", expired)
		}
	})
}

// ReleaseExpiredHolds is the storage-level safety net for tentative
// availability entries whose hold window lapsed or whose booking already left
// the pending states. The normal lifecycle releases holds inline; this sweep
// catches rows orphaned by a crash between steps.
func (jr *JobRunner) ReleaseExpiredHolds() {
	jr.runWithRecovery("ReleaseExpiredHolds", func() {
		ctx := context.Background()
		freed, err := jr.availRepo.ReleaseExpired(ctx)
		if err != nil {
			logger.Error("Failed to release expired holds", "error", err)
			return
		}
		if freed > 0 {
			logger.Info("Released expired availability holds", "rows", freed)
		}
	})
}
