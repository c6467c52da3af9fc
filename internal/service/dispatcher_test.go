package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type dispatcherFixture struct {
	userRepo *MockUserRepo
	noteRepo *MockNotificationRepo
	email    *MockEmailSender
	push     *MockPushSender
	disp     service.NotificationDispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		userRepo: new(MockUserRepo),
		noteRepo: new(MockNotificationRepo),
		email:    new(MockEmailSender),
		push:     new(MockPushSender),
	}
	f.disp = service.NewNotificationDispatcher(f.userRepo, f.noteRepo, f.email, f.push)
	return f
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	data := map[string]string{"listing_title": "Circular Saw", "owner_name": "Alex"}

	t.Run("WritesInAppRowAndSendsAllChannels", func(t *testing.T) {
		f := newDispatcherFixture()
		f.noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == renterID && n.Kind == domain.NotificationBookingApproved && n.Title != "" && n.Message != ""
		})).Return(nil)
		f.noteRepo.On("GetPreference", ctx, int64(renterID), domain.NotificationBookingApproved).
			Return(nil, fmt.Errorf("%w: no preference", domain.ErrNotFound))
		f.userRepo.On("GetByID", ctx, int64(renterID)).Return(testRenter(), nil)
		f.email.On("Send", ctx, "renter@test.com", "Renter", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.push.On("SendToUser", ctx, int64(renterID), mock.Anything, mock.Anything, data).Return(nil)

		f.disp.Dispatch(ctx, renterID, domain.NotificationBookingApproved, data)

		f.noteRepo.AssertExpectations(t)
		f.email.AssertExpectations(t)
		f.push.AssertExpectations(t)
	})

	t.Run("ChannelFailuresAreSwallowed", func(t *testing.T) {
		f := newDispatcherFixture()
		f.noteRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
		f.noteRepo.On("GetPreference", ctx, int64(renterID), domain.NotificationBookingApproved).
			Return(nil, fmt.Errorf("%w: no preference", domain.ErrNotFound))
		f.userRepo.On("GetByID", ctx, int64(renterID)).Return(testRenter(), nil)
		f.email.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("sendgrid down"))
		f.push.On("SendToUser", ctx, int64(renterID), mock.Anything, mock.Anything, data).
			Return(errors.New("fcm down"))

		assert.NotPanics(t, func() {
			f.disp.Dispatch(ctx, renterID, domain.NotificationBookingApproved, data)
		})

		// every channel was still attempted despite the earlier failures
		f.email.AssertExpectations(t)
		f.push.AssertExpectations(t)
	})

	t.Run("PreferenceSuppressesOptedOutChannels", func(t *testing.T) {
		f := newDispatcherFixture()
		f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.noteRepo.On("GetPreference", ctx, int64(renterID), domain.NotificationBookingApproved).
			Return(&domain.NotificationPreference{
				UserID:       renterID,
				Kind:         domain.NotificationBookingApproved,
				EmailEnabled: false,
				PushEnabled:  false,
			}, nil)

		f.disp.Dispatch(ctx, renterID, domain.NotificationBookingApproved, data)

		f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.push.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownKindIsANoOp", func(t *testing.T) {
		f := newDispatcherFixture()

		f.disp.Dispatch(ctx, renterID, domain.NotificationKind("no_such_kind"), data)

		f.noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
