package models

import "time"

type User struct {
	ID            string     `json:"id"`
	PhoneNumber   string     `json:"phone_number"`
	FullName      *string    `json:"full_name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Institution   *string    `json:"institution,omitempty"`
	PasswordHash  *string    `json:"-"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	CurrentTxnRef *string    `json:"current_txn_ref,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasActiveWindow reports whether the subscription window is open at t.
// A nil expiry means no access was ever granted.
func (u *User) HasActiveWindow(t time.Time) bool {
	return u.ExpiryDate != nil && u.ExpiryDate.After(t)
}

// DaysRemaining rounds down to whole days; lapsed or unset windows report 0.
func (u *User) DaysRemaining(t time.Time) int {
	if u.ExpiryDate == nil {
		return 0
	}
	secs := u.ExpiryDate.Sub(t).Seconds()
	if secs <= 0 {
		return 0
	}
	return int(secs / 86400)
}
