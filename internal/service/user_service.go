package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gatehouse/internal/cache"
	"gatehouse/internal/model"
	"gatehouse/internal/repository"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// UserService exposes the authenticated user's own account.
type UserService interface {
	Profile(ctx context.Context, id uint) (*model.User, error)
	Status(ctx context.Context, id uint) (status string, approvedAt *time.Time, err error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// Profile returns the user's account through a read-through cache. Admin
// decisions invalidate the cached entry so approvals show up promptly.
func (s *userService) Profile(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// Status reads straight from the store so dashboard polling sees status
// transitions without waiting out a cache TTL.
func (s *userService) Status(ctx context.Context, id uint) (string, *time.Time, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return user.Status, user.ApprovedAt, nil
}
