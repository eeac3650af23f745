package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"shopcore/internal/auth"
	"shopcore/internal/errors"
	"shopcore/internal/model"
	"shopcore/internal/repository"
)

// TokenPair bundles the access/refresh tokens issued on verification.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService handles the phone-OTP authentication flow.
type AuthService interface {
	// RequestOTP validates the phone number, finds or creates the user and
	// issues a fresh 6-digit code valid for five minutes. Any earlier
	// pending code for the user is invalidated.
	RequestOTP(ctx context.Context, phone string) (*model.OTP, error)
	// VerifyOTP redeems the pending code. On success both the code and the
	// user are marked verified and a token pair is issued.
	VerifyOTP(ctx context.Context, phone, code string) (*model.User, *TokenPair, error)
	// Refresh exchanges a stored refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout revokes the refresh token.
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	otpRepo    repository.OTPRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, otpRepo repository.OTPRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// ValidatePhone checks the phone is all digits and 10 to 15 characters long.
func ValidatePhone(phone string) error {
	if len(phone) < 10 || len(phone) > 15 {
		return errors.ErrInvalidPhone
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return errors.ErrInvalidPhone
		}
	}
	return nil
}

func (s *authService) RequestOTP(ctx context.Context, phone string) (*model.OTP, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhoneOrCreate(ctx, &model.User{
		Phone:  phone,
		Role:   model.RoleCustomer,
		Active: true,
	})
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	now := time.Now()
	if err := s.otpRepo.InvalidatePending(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("invalidate pending otps: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp code: %w", err)
	}

	otp := &model.OTP{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: now.Add(model.OTPTTL),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("create otp: %w", err)
	}

	return otp, nil
}

func (s *authService) VerifyOTP(ctx context.Context, phone, code string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, errors.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	otp, err := s.otpRepo.FindLatestPending(ctx, user.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, errors.ErrOTPNotFound
		}
		return nil, nil, fmt.Errorf("find pending otp: %w", err)
	}

	// Expiry is reported before a mismatch so a stale code never reads as
	// a wrong one.
	if otp.Expired(time.Now()) {
		return nil, nil, errors.ErrOTPExpired
	}
	if otp.Code != code {
		return nil, nil, errors.ErrOTPInvalid
	}

	if err := s.otpRepo.ConsumeWithUser(ctx, otp, user); err != nil {
		if err == gorm.ErrRecordNotFound {
			// Lost the race against a concurrent verification.
			return nil, nil, errors.ErrOTPNotFound
		}
		return nil, nil, fmt.Errorf("consume otp: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Phone, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Phone, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Phone, user.Role, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	storedUserID, storedPhone, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedPhone != claims.Phone {
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(storedUserID, storedPhone, storedRole)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return errors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// generateCode draws a uniform 6-digit numeric code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
