package jobs

import (
	"context"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
)

const reminderBatchSize = 200

// SendReviewReminders nudges both parties of recently completed bookings that
// have not reviewed each other yet.
func (jr *JobRunner) SendReviewReminders() {
	jr.runWithRecovery("SendReviewReminders", func() {
		ctx := context.Background()

		jr.remindMissing(ctx, domain.ReviewTypeRenterToOwner)
		jr.remindMissing(ctx, domain.ReviewTypeOwnerToRenter)
	})
}

func (jr *JobRunner) remindMissing(ctx context.Context, reviewType domain.ReviewType) {
	bookings, err := jr.bookingRepo.ListCompletedWithoutReview(ctx, reviewType, reminderBatchSize)
	if err != nil {
		logger.Error("Failed to list bookings missing reviews", "review_type", reviewType, "error", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]
		recipient := b.RenterID
		if reviewType == domain.ReviewTypeOwnerToRenter {
			recipient = b.OwnerID
		}
		jr.dispatcher.Dispatch(ctx, recipient, domain.NotificationReviewReminder, map[string]string{
			"booking_id": fmt.Sprintf("%d", b.ID),
		})
	}
	if len(bookings) > 0 {
		logger.Info("Sent review reminders", "review_type", reviewType, "count", len(bookings))
	}
}
