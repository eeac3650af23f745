package model

import "time"

// OTPTTL is how long a one-time code stays valid after creation.
const OTPTTL = 5 * time.Minute

// OTP is a one-time numeric code bound to a user's phone number.
// A code is usable only while Verified is false and ExpiresAt has not passed.
type OTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Code      string    `json:"-" gorm:"size:6;not null"`
	Verified  bool      `json:"verified" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Expired reports whether the code can no longer be redeemed due to age.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
