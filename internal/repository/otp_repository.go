package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shopcore/internal/model"
)

// OTPRepository defines persistence operations for one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, otp *model.OTP) error
	// FindLatestPending returns the most-recently-created unverified code
	// for the user, expired or not. Expiry is checked by the caller so the
	// expired case can be reported distinctly from a code mismatch.
	FindLatestPending(ctx context.Context, userID uint) (*model.OTP, error)
	// InvalidatePending force-expires all unverified codes for the user,
	// keeping at most one redeemable code per user at any time.
	InvalidatePending(ctx context.Context, userID uint, now time.Time) error
	// ConsumeWithUser marks the code and its owning user verified inside a
	// single transaction. Either both rows are updated or neither is.
	ConsumeWithUser(ctx context.Context, otp *model.OTP, user *model.User) error
}

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository builds a GORM-backed repository.
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *model.OTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) FindLatestPending(ctx context.Context, userID uint) (*model.OTP, error) {
	var otp model.OTP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND verified = ?", userID, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) InvalidatePending(ctx context.Context, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OTP{}).
		Where("user_id = ? AND verified = ? AND expires_at > ?", userID, false, now).
		Update("expires_at", now).Error
}

func (r *otpRepository) ConsumeWithUser(ctx context.Context, otp *model.OTP, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard against a concurrent verification winning the race: the
		// update only applies while the row is still unverified.
		res := tx.Model(&model.OTP{}).
			Where("id = ? AND verified = ?", otp.ID, false).
			Update("verified", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("is_verified", true).Error; err != nil {
			return err
		}
		otp.Verified = true
		user.IsVerified = true
		return nil
	})
}
