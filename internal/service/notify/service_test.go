package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/domain"
	"donation_hub/internal/model"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) MarkNotificationRead(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *repoMock) MarkNotificationsReadByItems(ctx context.Context, itemKind string, itemIDs []int64) (int64, error) {
	args := m.Called(ctx, itemKind, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) ListNotificationsForUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *repoMock) ListAdminNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func runHub(t *testing.T) *bus.Hub {
	t.Helper()
	hub := bus.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func joinedSession(t *testing.T, hub *bus.Hub, room string) *bus.Session {
	t.Helper()
	session := bus.NewSession(4)
	hub.Register(session)
	hub.Join(session, room)
	return session
}

func recvFrame(t *testing.T, s *bus.Session) model.Frame {
	t.Helper()
	select {
	case frame := <-s.Frames():
		return frame
	case <-time.After(time.Second):
		t.Fatalf("expected frame")
		return model.Frame{}
	}
}

func requireNoFrame(t *testing.T, s *bus.Session) {
	t.Helper()
	select {
	case frame := <-s.Frames():
		t.Fatalf("unexpected frame: %+v", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotify(t *testing.T) {
	t.Run("invalid kind", func(t *testing.T) {
		repo := &repoMock{}
		svc := NewService(repo, runHub(t), zap.NewNop())

		_, err := svc.Notify(context.Background(), nil, 1, "bad", "msg")
		require.ErrorIs(t, err, domain.ErrInvalidItemKind)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("store error aborts before publish", func(t *testing.T) {
		storeErr := errors.New("store failed")
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.Notification{}, storeErr).Once()

		hub := runHub(t)
		userID := int64(7)
		session := joinedSession(t, hub, domain.UserRoom(userID))

		svc := NewService(repo, hub, zap.NewNop())
		_, err := svc.Notify(context.Background(), &userID, 1, domain.ItemKindDonation, "msg")
		require.ErrorIs(t, err, storeErr)
		requireNoFrame(t, session)
		repo.AssertExpectations(t)
	})

	t.Run("targeted event reaches the personal room", func(t *testing.T) {
		userID := int64(7)
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.Notification{
			ID:       42,
			UserID:   &userID,
			ItemID:   9,
			ItemType: domain.ItemKindDonation,
			Message:  "approved",
		}, nil).Once()

		hub := runHub(t)
		personal := joinedSession(t, hub, domain.UserRoom(userID))
		admins := joinedSession(t, hub, domain.AdminRoom)

		svc := NewService(repo, hub, zap.NewNop())
		created, err := svc.Notify(context.Background(), &userID, 9, domain.ItemKindDonation, "approved")
		require.NoError(t, err)
		require.Equal(t, int64(42), created.ID)
		require.False(t, created.IsRead)

		frame := recvFrame(t, personal)
		require.Equal(t, domain.FrameNewNotification, frame.Kind)
		got, ok := frame.Payload.(model.Notification)
		require.True(t, ok)
		require.Equal(t, int64(42), got.ID)

		requireNoFrame(t, admins)
		repo.AssertExpectations(t)
	})

	t.Run("nil user routes to the admin room only", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, mock.Anything).Return(model.Notification{
			ID:       5,
			ItemID:   3,
			ItemType: domain.ItemKindInNeed,
			Message:  "pending moderation",
		}, nil).Once()

		hub := runHub(t)
		admins := joinedSession(t, hub, domain.AdminRoom)

		svc := NewService(repo, hub, zap.NewNop())
		_, err := svc.Notify(context.Background(), nil, 3, domain.ItemKindInNeed, "pending moderation")
		require.NoError(t, err)

		frame := recvFrame(t, admins)
		require.Equal(t, domain.FrameNewNotification, frame.Kind)
		repo.AssertExpectations(t)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkNotificationRead", mock.Anything, int64(42)).Return(true, nil).Twice()
		svc := NewService(repo, runHub(t), zap.NewNop())

		require.NoError(t, svc.MarkRead(context.Background(), 42))
		require.NoError(t, svc.MarkRead(context.Background(), 42))
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkNotificationRead", mock.Anything, int64(99)).Return(false, nil).Once()
		svc := NewService(repo, runHub(t), zap.NewNop())

		require.ErrorIs(t, svc.MarkRead(context.Background(), 99), domain.ErrNotFound)
		repo.AssertExpectations(t)
	})
}

func TestMarkReadForItems(t *testing.T) {
	t.Run("filters on the chat kind", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("MarkNotificationsReadByItems", mock.Anything, domain.ItemKindMessage, []int64{1, 2}).
			Return(int64(2), nil).Once()
		svc := NewService(repo, runHub(t), zap.NewNop())

		require.NoError(t, svc.MarkReadForItems(context.Background(), []int64{1, 2}))
		repo.AssertExpectations(t)
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		repo := &repoMock{}
		svc := NewService(repo, runHub(t), zap.NewNop())

		require.NoError(t, svc.MarkReadForItems(context.Background(), nil))
		repo.AssertNotCalled(t, "MarkNotificationsReadByItems", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListForUser(t *testing.T) {
	userID := int64(7)
	expected := []model.Notification{{ID: 2, UserID: &userID}, {ID: 1, UserID: &userID}}
	repo := &repoMock{}
	repo.On("ListNotificationsForUser", mock.Anything, userID, mock.Anything).Return(expected, nil).Once()
	svc := NewService(repo, runHub(t), zap.NewNop())

	got, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	repo.AssertExpectations(t)
}
