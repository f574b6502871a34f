package entity

import "time"

type OtpCode struct {
	ID        int64
	UserID    int64
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
	Verified  bool
}

// Expired reports whether the code is past its expiry at the given time.
func (o OtpCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

type LoginAttempt struct {
	ID            int64
	UserID        *int64
	Email         string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason FailureReason
	CreatedAt     time.Time
}

// LoginSession is the redis-backed session value keyed by the hash of an
// opaque session token. PendingOtpID is non-zero only while awaiting an OTP.
type LoginSession struct {
	State        SessionState `json:"state"`
	UserID       int64        `json:"user_id"`
	Email        string       `json:"email"`
	PendingOtpID int64        `json:"pending_otp_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	FullName string
	Status   UserStatus
	Password string
}
