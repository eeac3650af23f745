package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"shopcore/internal/auth"
	"shopcore/internal/errors"
	"shopcore/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
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

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhoneOrCreate(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockOTPRepository is a mock implementation of OTPRepository.
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *model.OTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) FindLatestPending(ctx context.Context, userID uint) (*model.OTP, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OTP), args.Error(1)
}

func (m *MockOTPRepository) InvalidatePending(ctx context.Context, userID uint, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

func (m *MockOTPRepository) ConsumeWithUser(ctx context.Context, otp *model.OTP, user *model.User) error {
	args := m.Called(ctx, otp, user)
	if args.Error(0) == nil {
		otp.Verified = true
		user.IsVerified = true
	}
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, phone string, role model.Role, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, phone, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, model.Role, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Get(2).(model.Role), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, otpRepo *MockOTPRepository, tokenStore *MockTokenStore) AuthService {
	return NewAuthService(userRepo, otpRepo, auth.NewJWTService("test-secret"), tokenStore)
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr error
	}{
		{"valid 10 digits", "9876543210", nil},
		{"valid 12 digits", "919876543210", nil},
		{"too short", "987654321", errors.ErrInvalidPhone},
		{"non numeric", "98765abc10", errors.ErrInvalidPhone},
		{"plus prefix rejected", "+9876543210", errors.ErrInvalidPhone},
		{"too long", "1234567890123456", errors.ErrInvalidPhone},
		{"empty", "", errors.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, ValidatePhone(tt.phone))
		})
	}
}

func TestAuthService_RequestOTP(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		setupMock     func(*MockUserRepository, *MockOTPRepository)
		expectedError error
	}{
		{
			name:  "new user created and code issued",
			phone: "9876543210",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository) {
				mUser.On("FindByPhoneOrCreate", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(&model.User{ID: 1, Phone: "9876543210", Role: model.RoleCustomer, Active: true}, nil)
				mOTP.On("InvalidatePending", mock.Anything, uint(1), mock.AnythingOfType("time.Time")).Return(nil)
				mOTP.On("Create", mock.Anything, mock.AnythingOfType("*model.OTP")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "existing user reused",
			phone: "1112223334",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository) {
				mUser.On("FindByPhoneOrCreate", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(&model.User{ID: 7, Phone: "1112223334", Role: model.RoleSeller, Active: true}, nil)
				mOTP.On("InvalidatePending", mock.Anything, uint(7), mock.AnythingOfType("time.Time")).Return(nil)
				mOTP.On("Create", mock.Anything, mock.AnythingOfType("*model.OTP")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "invalid phone rejected before persistence",
			phone:         "12345",
			setupMock:     func(mUser *MockUserRepository, mOTP *MockOTPRepository) {},
			expectedError: errors.ErrInvalidPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockOTPRepo := new(MockOTPRepository)
			tt.setupMock(mockUserRepo, mockOTPRepo)

			service := newTestAuthService(mockUserRepo, mockOTPRepo, new(MockTokenStore))
			otp, err := service.RequestOTP(context.Background(), tt.phone)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, otp)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, otp)
				assert.Len(t, otp.Code, 6)
				for _, c := range otp.Code {
					assert.True(t, c >= '0' && c <= '9')
				}
				assert.False(t, otp.Verified)
				assert.WithinDuration(t, time.Now().Add(model.OTPTTL), otp.ExpiresAt, 2*time.Second)
			}

			mockUserRepo.AssertExpectations(t)
			mockOTPRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RequestOTP_CodesDiffer(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOTPRepo := new(MockOTPRepository)
	mockUserRepo.On("FindByPhoneOrCreate", mock.Anything, mock.AnythingOfType("*model.User")).
		Return(&model.User{ID: 1, Phone: "9876543210"}, nil)
	mockOTPRepo.On("InvalidatePending", mock.Anything, uint(1), mock.AnythingOfType("time.Time")).Return(nil)
	mockOTPRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.OTP")).Return(nil)

	service := newTestAuthService(mockUserRepo, mockOTPRepo, new(MockTokenStore))

	// Every request creates a fresh code row; with a 6-digit space ten
	// draws colliding on every draw would point at a broken generator.
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		otp, err := service.RequestOTP(context.Background(), "9876543210")
		assert.NoError(t, err)
		seen[otp.Code] = true
	}
	assert.Greater(t, len(seen), 1)
	mockOTPRepo.AssertNumberOfCalls(t, "Create", 10)
	mockOTPRepo.AssertNumberOfCalls(t, "InvalidatePending", 10)
}

func TestAuthService_VerifyOTP(t *testing.T) {
	user := func() *model.User {
		return &model.User{ID: 3, Phone: "9876543210", Role: model.RoleCustomer, Active: true}
	}

	tests := []struct {
		name          string
		phone         string
		code          string
		setupMock     func(*MockUserRepository, *MockOTPRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:  "successful verification issues tokens",
			phone: "9876543210",
			code:  "123456",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				u := user()
				mUser.On("FindByPhone", mock.Anything, "9876543210").Return(u, nil)
				mOTP.On("FindLatestPending", mock.Anything, uint(3)).Return(&model.OTP{
					ID:        11,
					UserID:    3,
					Code:      "123456",
					ExpiresAt: time.Now().Add(4 * time.Minute),
				}, nil)
				mOTP.On("ConsumeWithUser", mock.Anything, mock.AnythingOfType("*model.OTP"), u).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(3), "9876543210", model.RoleCustomer, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "unknown phone",
			phone: "4445556667",
			code:  "123456",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				mUser.On("FindByPhone", mock.Anything, "4445556667").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name:  "no pending code",
			phone: "9876543210",
			code:  "123456",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				mUser.On("FindByPhone", mock.Anything, "9876543210").Return(user(), nil)
				mOTP.On("FindLatestPending", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrOTPNotFound,
		},
		{
			name:  "expired code reports expiry even when code matches",
			phone: "9876543210",
			code:  "123456",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				mUser.On("FindByPhone", mock.Anything, "9876543210").Return(user(), nil)
				mOTP.On("FindLatestPending", mock.Anything, uint(3)).Return(&model.OTP{
					ID:        12,
					UserID:    3,
					Code:      "123456",
					ExpiresAt: time.Now().Add(-time.Second),
				}, nil)
			},
			expectedError: errors.ErrOTPExpired,
		},
		{
			name:  "wrong code",
			phone: "9876543210",
			code:  "000000",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				mUser.On("FindByPhone", mock.Anything, "9876543210").Return(user(), nil)
				mOTP.On("FindLatestPending", mock.Anything, uint(3)).Return(&model.OTP{
					ID:        13,
					UserID:    3,
					Code:      "123456",
					ExpiresAt: time.Now().Add(4 * time.Minute),
				}, nil)
			},
			expectedError: errors.ErrOTPInvalid,
		},
		{
			name:  "superseded code no longer matches",
			phone: "1112223334",
			code:  "111111",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				u := &model.User{ID: 5, Phone: "1112223334", Role: model.RoleCustomer}
				mUser.On("FindByPhone", mock.Anything, "1112223334").Return(u, nil)
				// A second request replaced the pending code; only the
				// newest is checked.
				mOTP.On("FindLatestPending", mock.Anything, uint(5)).Return(&model.OTP{
					ID:        21,
					UserID:    5,
					Code:      "222222",
					ExpiresAt: time.Now().Add(4 * time.Minute),
				}, nil)
			},
			expectedError: errors.ErrOTPInvalid,
		},
		{
			name:  "lost race against concurrent verification",
			phone: "9876543210",
			code:  "123456",
			setupMock: func(mUser *MockUserRepository, mOTP *MockOTPRepository, mToken *MockTokenStore) {
				u := user()
				mUser.On("FindByPhone", mock.Anything, "9876543210").Return(u, nil)
				mOTP.On("FindLatestPending", mock.Anything, uint(3)).Return(&model.OTP{
					ID:        14,
					UserID:    3,
					Code:      "123456",
					ExpiresAt: time.Now().Add(4 * time.Minute),
				}, nil)
				mOTP.On("ConsumeWithUser", mock.Anything, mock.AnythingOfType("*model.OTP"), u).Return(gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrOTPNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockOTPRepo := new(MockOTPRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockUserRepo, mockOTPRepo, mockTokenStore)

			service := newTestAuthService(mockUserRepo, mockOTPRepo, mockTokenStore)
			verified, tokens, err := service.VerifyOTP(context.Background(), tt.phone, tt.code)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, verified)
				assert.Nil(t, tokens)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, verified)
				assert.True(t, verified.IsVerified)
				assert.NotNil(t, tokens)
				assert.NotEmpty(t, tokens.Access)
				assert.NotEmpty(t, tokens.Refresh)
			}

			mockUserRepo.AssertExpectations(t)
			mockOTPRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyOTP_ConsumedCodeIsOneShot(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOTPRepo := new(MockOTPRepository)
	mockTokenStore := new(MockTokenStore)

	u := &model.User{ID: 9, Phone: "9876543210", Role: model.RoleCustomer}
	mockUserRepo.On("FindByPhone", mock.Anything, "9876543210").Return(u, nil)
	mockOTPRepo.On("FindLatestPending", mock.Anything, uint(9)).Return(&model.OTP{
		ID:        31,
		UserID:    9,
		Code:      "654321",
		ExpiresAt: time.Now().Add(4 * time.Minute),
	}, nil).Once()
	mockOTPRepo.On("ConsumeWithUser", mock.Anything, mock.AnythingOfType("*model.OTP"), u).Return(nil).Once()
	mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(9), "9876543210", model.RoleCustomer, mock.Anything).Return(nil).Once()

	service := newTestAuthService(mockUserRepo, mockOTPRepo, mockTokenStore)

	verified, tokens, err := service.VerifyOTP(context.Background(), "9876543210", "654321")
	assert.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.NotNil(t, tokens)

	// The consumed row is verified now, so no pending code remains.
	mockOTPRepo.On("FindLatestPending", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound).Once()

	_, _, err = service.VerifyOTP(context.Background(), "9876543210", "654321")
	assert.Equal(t, errors.ErrOTPNotFound, err)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	mockTokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-secret")
	service := NewAuthService(new(MockUserRepository), new(MockOTPRepository), jwtService, mockTokenStore)

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(4, "9876543210", model.RoleSeller)
	assert.NoError(t, err)

	mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).
		Return(uint(4), "9876543210", model.RoleSeller, nil).Once()

	accessToken, err := service.Refresh(context.Background(), refreshToken)
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, model.RoleSeller, claims.Role)

	_, err = service.Refresh(context.Background(), "not-a-token")
	assert.Equal(t, errors.ErrInvalidRefreshToken, err)

	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil).Once()
	assert.NoError(t, service.Logout(context.Background(), refreshToken))
	mockTokenStore.AssertExpectations(t)
}
