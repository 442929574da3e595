package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"gatehouse/internal/cache"
	apperrors "gatehouse/internal/errors"
	"gatehouse/internal/model"
	"gatehouse/internal/queue"
	"gatehouse/internal/repository"
)

// Stats summarizes the approval pipeline.
type Stats struct {
	Pending int64 `json:"pending"`
}

// AdminService handles admin approval decisions.
type AdminService interface {
	ListPending(ctx context.Context) ([]model.User, error)
	Approve(ctx context.Context, userID, adminID uint) (*model.User, error)
	Reject(ctx context.Context, userID, adminID uint, reason string) (*model.User, error)
	Stats(ctx context.Context) (*Stats, error)
}

type adminService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	queue     queue.ApprovalQueue
	cache     *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, q queue.ApprovalQueue, cache *cache.Client) AdminService {
	return &adminService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		queue:     q,
		cache:     cache,
	}
}

// ListPending returns pending users, oldest registration first.
func (s *adminService) ListPending(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListPending(ctx)
}

// Approve transitions a PENDING user to APPROVED. The store is updated
// synchronously so the admin reads their own write; the decision is also
// enqueued for async side effects (notifications).
func (s *adminService) Approve(ctx context.Context, userID, adminID uint) (*model.User, error) {
	return s.decide(ctx, userID, adminID, queue.ActionApprove, model.StatusApproved)
}

// Reject transitions a PENDING user to REJECTED. The reason is accepted but
// not persisted.
func (s *adminService) Reject(ctx context.Context, userID, adminID uint, _ string) (*model.User, error) {
	return s.decide(ctx, userID, adminID, queue.ActionReject, model.StatusRejected)
}

func (s *adminService) decide(ctx context.Context, userID, adminID uint, action, status string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.Approvable() {
		verb := "approve"
		if action == queue.ActionReject {
			verb = "reject"
		}
		return nil, &apperrors.InvalidTransitionError{Action: verb, Status: user.Status}
	}

	updated, err := s.userRepo.UpdateStatus(ctx, userID, status, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	// Async side effects are best effort; the synchronous update above is
	// the source of truth and a lost queue entry is accepted.
	entry := queue.Entry{
		UserID:     userID,
		Action:     action,
		ApprovedBy: adminID,
		EnqueuedAt: time.Now(),
	}
	if err := s.queue.Enqueue(ctx, entry); err != nil {
		log.Printf("enqueue %s decision for user %d: %v", action, userID, err)
	}

	s.audit(ctx, adminID, action, userID, user.Status, status)

	// The profile read path caches; drop the stale snapshot.
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	return updated, nil
}

func (s *adminService) audit(ctx context.Context, adminID uint, action string, userID uint, from, to string) {
	changes, _ := json.Marshal(map[string]string{"from": from, "to": to})
	entry := &model.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   "user",
		ResourceID: &userID,
		Changes:    string(changes),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("write audit log for user %d: %v", userID, err)
	}
}

// Stats returns approval pipeline counters.
func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	pending, err := s.userRepo.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending users: %w", err)
	}
	return &Stats{Pending: pending}, nil
}
