package entity

// UserStatus reflects whether an account may sign in.
type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive mean user is allowed to sign in.
	UserStatusActive UserStatus = 1

	// UserStatusDisabled mean user exists but sign-in is blocked.
	UserStatusDisabled UserStatus = 2
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// SessionState is the lifecycle position of a login session.
//
// The absence of a session is the unauthenticated state, so it has no value
// here.
type SessionState string

const (
	// SessionStateAwaitingOtp means credentials passed and an OTP is pending.
	SessionStateAwaitingOtp SessionState = "awaiting_otp"

	// SessionStateAuthenticated means the OTP was consumed and login completed.
	SessionStateAuthenticated SessionState = "authenticated"
)

// FailureReason classifies why a login attempt did not succeed.
type FailureReason string

const (
	// FailureReasonNone marks a successful attempt.
	FailureReasonNone FailureReason = ""

	// FailureReasonUserNotFound mean the email did not resolve to an account.
	FailureReasonUserNotFound FailureReason = "user_not_found"

	// FailureReasonInvalidCredentials mean the password did not match.
	FailureReasonInvalidCredentials FailureReason = "invalid_credentials"

	// FailureReasonAccountDisabled mean the account exists but is blocked.
	FailureReasonAccountDisabled FailureReason = "account_disabled"

	// FailureReasonDeliveryFailed mean the OTP email could not be sent.
	FailureReasonDeliveryFailed FailureReason = "delivery_failed"
)

func (fr FailureReason) String() string {
	return string(fr)
}
