package inbound

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionToken string `json:"session_token"`
}

func (LoginResponse) Message() string {
	return "Verification code sent. Please check your email."
}

type LoginVerifyRequest struct {
	SessionToken string `json:"session_token"`
	Code         string `json:"code"`
}

type LoginVerifyResponse struct {
	AccessToken string `json:"access_token"`
}

func (LoginVerifyResponse) Message() string {
	return "Login successful."
}

type LoginResendRequest struct {
	SessionToken string `json:"session_token"`
}

type LoginResendResponse struct{}

func (LoginResendResponse) Message() string {
	return "Verification code sent. Please check your email."
}

type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

type LoginAttemptItem struct {
	Email         string    `json:"email"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecentAttemptsResponse struct {
	Attempts []LoginAttemptItem `json:"attempts"`
}
