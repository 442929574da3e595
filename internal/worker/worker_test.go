package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"gatehouse/internal/model"
	"gatehouse/internal/queue"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) ListPending(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepository) UpdateStatus(ctx context.Context, id uint, status string, approvedBy uint) (*model.User, error) {
	args := m.Called(ctx, id, status, approvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(ctx context.Context, entry queue.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockQueue) PeekBatch(ctx context.Context, n int) ([]queue.Entry, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Entry), args.Error(1)
}

func (m *mockQueue) DequeueHead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestApprovalWorker_ProcessBatch(t *testing.T) {
	adminID := uint(1)

	t.Run("drains approve and reject entries in order", func(t *testing.T) {
		repo := new(mockUserRepository)
		q := new(mockQueue)
		w := New(repo, q, time.Second, 10)

		entries := []queue.Entry{
			{UserID: 5, Action: queue.ActionApprove, ApprovedBy: adminID},
			{UserID: 6, Action: queue.ActionReject, ApprovedBy: adminID},
		}
		q.On("PeekBatch", mock.Anything, 10).Return(entries, nil)
		repo.On("UpdateStatus", mock.Anything, uint(5), model.StatusApproved, adminID).
			Return(&model.User{ID: 5, Status: model.StatusApproved}, nil)
		repo.On("UpdateStatus", mock.Anything, uint(6), model.StatusRejected, adminID).
			Return(&model.User{ID: 6, Status: model.StatusRejected}, nil)
		q.On("DequeueHead", mock.Anything).Return(nil).Times(2)

		w.ProcessBatch(context.Background())

		repo.AssertExpectations(t)
		q.AssertExpectations(t)
	})

	t.Run("queued approve reaches the same terminal state as a synchronous approve", func(t *testing.T) {
		repo := new(mockUserRepository)
		q := new(mockQueue)
		w := New(repo, q, time.Second, 10)

		// Entry enqueued by the decision API after the synchronous update
		// already set APPROVED; re-applying is a no-op transition.
		q.On("PeekBatch", mock.Anything, 10).Return([]queue.Entry{
			{UserID: 5, Action: queue.ActionApprove, ApprovedBy: adminID},
		}, nil)
		repo.On("UpdateStatus", mock.Anything, uint(5), model.StatusApproved, adminID).
			Return(&model.User{ID: 5, Status: model.StatusApproved, ApprovedBy: &adminID}, nil)
		q.On("DequeueHead", mock.Anything).Return(nil).Once()

		w.ProcessBatch(context.Background())

		repo.AssertExpectations(t)
		q.AssertExpectations(t)
	})

	t.Run("failed entry stays queued for the next tick", func(t *testing.T) {
		repo := new(mockUserRepository)
		q := new(mockQueue)
		w := New(repo, q, time.Second, 10)

		q.On("PeekBatch", mock.Anything, 10).Return([]queue.Entry{
			{UserID: 7, Action: queue.ActionApprove, ApprovedBy: adminID},
		}, nil)
		repo.On("UpdateStatus", mock.Anything, uint(7), model.StatusApproved, adminID).
			Return(nil, gorm.ErrInvalidDB)

		w.ProcessBatch(context.Background())

		q.AssertNotCalled(t, "DequeueHead", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("unknown action is discarded", func(t *testing.T) {
		repo := new(mockUserRepository)
		q := new(mockQueue)
		w := New(repo, q, time.Second, 10)

		q.On("PeekBatch", mock.Anything, 10).Return([]queue.Entry{
			{UserID: 8, Action: "NOTIFY", ApprovedBy: adminID},
		}, nil)
		q.On("DequeueHead", mock.Anything).Return(nil).Once()

		w.ProcessBatch(context.Background())

		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		q.AssertExpectations(t)
	})

	t.Run("peek failure is logged and retried next tick", func(t *testing.T) {
		repo := new(mockUserRepository)
		q := new(mockQueue)
		w := New(repo, q, time.Second, 10)

		q.On("PeekBatch", mock.Anything, 10).Return(nil, assert.AnError)

		w.ProcessBatch(context.Background())

		q.AssertNotCalled(t, "DequeueHead", mock.Anything)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApprovalWorker_RunStopsOnCancel(t *testing.T) {
	repo := new(mockUserRepository)
	q := new(mockQueue)
	w := New(repo, q, 10*time.Millisecond, 10)

	q.On("PeekBatch", mock.Anything, 10).Return([]queue.Entry{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
