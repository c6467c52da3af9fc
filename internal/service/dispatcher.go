package service

import (
	"context"
	"errors"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
)

// notificationTemplate renders the title/body pair for a notification kind.
// Templates pull values out of the dispatch data map; missing keys render as
// empty strings, which keeps dispatch total.
type notificationTemplate struct {
	subject func(data map[string]string) string
	body    func(data map[string]string) string
}

var templates = map[domain.NotificationKind]notificationTemplate{
	domain.NotificationBookingRequested: {
		subject: func(d map[string]string) string { return "New booking request" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("%s requested to book %s from %s to %s", d["renter_name"], d["listing_title"], d["start_date"], d["end_date"])
		},
	},
	domain.NotificationBookingApproved: {
		subject: func(d map[string]string) string { return "Booking confirmed" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("Your booking for %s was approved by %s", d["listing_title"], d["owner_name"])
		},
	},
	domain.NotificationBookingRejected: {
		subject: func(d map[string]string) string { return "Booking declined" },
		body: func(d map[string]string) string {
			if d["reason"] != "" {
				return fmt.Sprintf("Your booking for %s was declined: %s", d["listing_title"], d["reason"])
			}
			return fmt.Sprintf("Your booking for %s was declined", d["listing_title"])
		},
	},
	domain.NotificationBookingExpired: {
		subject: func(d map[string]string) string { return "Booking request expired" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("Your booking request for %s expired without a response from the owner", d["listing_title"])
		},
	},
	domain.NotificationBookingCancelled: {
		subject: func(d map[string]string) string { return "Booking cancelled" },
		body: func(d map[string]string) string {
			msg := fmt.Sprintf("Booking for %s was cancelled", d["listing_title"])
			if d["refund"] != "" {
				msg += fmt.Sprintf(". Refund amount: %s cents", d["refund"])
			}
			if d["reason"] != "" {
				msg += ". Reason: " + d["reason"]
			}
			return msg
		},
	},
	domain.NotificationPickupVerify: {
		subject: func(d map[string]string) string { return "Please verify the pickup" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("%s confirmed the pickup of %s. Please review and confirm on your side.", d["confirming_party"], d["listing_title"])
		},
	},
	domain.NotificationRentalStarted: {
		subject: func(d map[string]string) string { return "Rental started" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("Both parties confirmed the pickup of %s. The rental is now in progress.", d["listing_title"])
		},
	},
	domain.NotificationReturnVerify: {
		subject: func(d map[string]string) string { return "Please verify the return" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("%s confirmed the return of %s. Please review and confirm on your side.", d["confirming_party"], d["listing_title"])
		},
	},
	domain.NotificationRentalCompleted: {
		subject: func(d map[string]string) string { return "Rental completed" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("The rental of %s is complete. Funds have been released and the deposit refunded.", d["listing_title"])
		},
	},
	domain.NotificationReviewReminder: {
		subject: func(d map[string]string) string { return "How was your rental?" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("Leave a review for your recent rental of %s", d["listing_title"])
		},
	},
	domain.NotificationNewMessage: {
		subject: func(d map[string]string) string { return "New message" },
		body: func(d map[string]string) string {
			return fmt.Sprintf("You have a new message on booking #%s: %s", d["booking_id"], d["preview"])
		},
	},
}

type dispatcher struct {
	userRepo repository.UserRepository
	noteRepo repository.NotificationRepository
	email    EmailSender
	push     PushSender
}

func NewNotificationDispatcher(
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	email EmailSender,
	push PushSender,
) NotificationDispatcher {
	return &dispatcher{
		userRepo: userRepo,
		noteRepo: noteRepo,
		email:    email,
		push:     push,
	}
}

// Dispatch writes the in-app row and sends email + push per the user's stored
// preferences (absent preferences default to send). Every channel is
// best-effort: failures are logged and swallowed, never propagated, since the
// caller's state transition has already committed.
func (d *dispatcher) Dispatch(ctx context.Context, userID int64, kind domain.NotificationKind, data map[string]string) {
	tmpl, ok := templates[kind]
	if !ok {
		logger.Error("No template for notification kind", "kind", kind)
		return
	}
	title := tmpl.subject(data)
	body := tmpl.body(data)

	note := &domain.Notification{
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Message:    body,
		Attributes: data,
	}
	if err := d.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store in-app notification", "user_id", userID, "kind", kind, "error", err)
	}

	emailOn, pushOn := d.channelPreferences(ctx, userID, kind)

	if emailOn && d.email != nil {
		user, err := d.userRepo.GetByID(ctx, userID)
		if err != nil {
			logger.Error("Failed to load user for email notification", "user_id", userID, "error", err)
		} else if err := d.email.Send(ctx, user.Email, user.Name, title, body, htmlBody(title, body)); err != nil {
			logger.Error("Failed to send notification email", "user_id", userID, "kind", kind, "error", err)
		}
	}

	if pushOn && d.push != nil {
		if err := d.push.SendToUser(ctx, userID, title, body, data); err != nil {
			logger.Error("Failed to send push notification", "user_id", userID, "kind", kind, "error", err)
		}
	}
}

func (d *dispatcher) channelPreferences(ctx context.Context, userID int64, kind domain.NotificationKind) (emailOn, pushOn bool) {
	pref, err := d.noteRepo.GetPreference(ctx, userID, kind)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to load notification preference, defaulting to send", "user_id", userID, "error", err)
		}
		return true, true
	}
	return pref.EmailEnabled, pref.PushEnabled
}

func htmlBody(title, body string) string {
	return fmt.Sprintf(`<html><body><h2>%s</h2><p>%s</p></body></html>`, title, body)
}
