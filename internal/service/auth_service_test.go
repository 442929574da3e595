package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gatehouse/internal/auth"
	apperrors "gatehouse/internal/errors"
	"gatehouse/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListPending(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uint, status string, approvedBy uint) (*model.User, error) {
	args := m.Called(ctx, id, status, approvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration starts pending",
			email: "amy@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "amy@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already registered",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "unique index is authoritative when pre-check races",
			email: "raced@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			service := NewAuthService(mockRepo, jwtService, mockTokenStore)
			user, err := service.Register(context.Background(), tt.email, "password123", "Test", "User")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.StatusPending, user.Status)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "password123", user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		return string(h)
	}

	tests := []struct {
		name           string
		email          string
		password       string
		user           *model.User
		findErr        error
		expectStore    bool
		expectedError  error
		expectedStatus string
	}{
		{
			name:     "approved user logs in",
			email:    "approved@example.com",
			password: "password123",
			user: &model.User{
				ID:           1,
				Email:        "approved@example.com",
				PasswordHash: hash("password123"),
				Role:         model.RoleUser,
				Status:       model.StatusApproved,
			},
			expectStore: true,
		},
		{
			name:     "active user logs in",
			email:    "active@example.com",
			password: "password123",
			user: &model.User{
				ID:           2,
				Email:        "active@example.com",
				PasswordHash: hash("password123"),
				Role:         model.RoleUser,
				Status:       model.StatusActive,
			},
			expectStore: true,
		},
		{
			name:     "pending user is gated before the password check",
			email:    "pending@example.com",
			password: "wrong-password",
			user: &model.User{
				ID:           3,
				Email:        "pending@example.com",
				PasswordHash: hash("password123"),
				Role:         model.RoleUser,
				Status:       model.StatusPending,
			},
			expectedError:  &apperrors.NotApprovedError{Status: model.StatusPending},
			expectedStatus: model.StatusPending,
		},
		{
			name:     "rejected user cannot log in with correct password",
			email:    "rejected@example.com",
			password: "password123",
			user: &model.User{
				ID:           4,
				Email:        "rejected@example.com",
				PasswordHash: hash("password123"),
				Role:         model.RoleUser,
				Status:       model.StatusRejected,
			},
			expectedError:  &apperrors.NotApprovedError{Status: model.StatusRejected},
			expectedStatus: model.StatusRejected,
		},
		{
			name:     "admin bypasses the status gate",
			email:    "admin@example.com",
			password: "admin123456",
			user: &model.User{
				ID:           5,
				Email:        "admin@example.com",
				PasswordHash: hash("admin123456"),
				Role:         model.RoleAdmin,
				Status:       model.StatusPending,
			},
			expectStore: true,
		},
		{
			name:     "wrong password for approved user",
			email:    "approved@example.com",
			password: "wrong-password",
			user: &model.User{
				ID:           6,
				Email:        "approved@example.com",
				PasswordHash: hash("password123"),
				Role:         model.RoleUser,
				Status:       model.StatusApproved,
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "unknown email",
			email:         "nobody@example.com",
			password:      "password123",
			findErr:       gorm.ErrRecordNotFound,
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)

			if tt.findErr != nil {
				mockRepo.On("FindByEmail", mock.Anything, tt.email).Return(nil, tt.findErr)
			} else {
				mockRepo.On("FindByEmail", mock.Anything, tt.email).Return(tt.user, nil)
			}
			if tt.expectStore {
				mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, tt.user.ID, tt.email, mock.Anything).Return(nil)
			}

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			token, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Empty(t, refreshToken)
				if tt.expectedStatus != "" {
					var notApproved *apperrors.NotApprovedError
					assert.ErrorAs(t, err, &notApproved)
					assert.Equal(t, tt.expectedStatus, notApproved.Status)
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)

				claims, err := jwtService.ValidateToken(token)
				assert.NoError(t, err)
				assert.Equal(t, tt.user.ID, claims.UserID)
				assert.Equal(t, tt.user.Role, claims.Role)
				assert.Equal(t, tt.user.Status, claims.Status)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}
