package model

import "time"

// Role classifies a user for authorization purposes.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents an account identified by phone number.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Phone        string    `json:"phone" gorm:"uniqueIndex;size:15;not null"`
	Name         string    `json:"name" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'customer';index"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	PasswordHash string    `json:"-" gorm:"size:255"` // Optional, never exposed in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	OTPs []OTP `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
