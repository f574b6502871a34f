package inbound

import (
	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/router"
	"github.com/samber/lo"
)

// HTTPEndpoint exposes HTTP handlers for the two-step login workflow.
type HTTPEndpoint struct {
	uc uc
}

// Login verifies credentials and sends a one-time code to the user's email.
// The returned session token must be presented on verify/resend calls.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.BeginLogin(r.Context(), usecase.BeginLoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{SessionToken: resp.SessionToken}, nil
}

// LoginVerify consumes the emailed code and returns an access token.
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req LoginVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CompleteLogin(r.Context(), usecase.CompleteLoginInput{
		SessionToken: req.SessionToken,
		Code:         req.Code,
	})
	if err != nil {
		return nil, err
	}

	return LoginVerifyResponse{AccessToken: resp.AccessToken}, nil
}

// LoginResend issues and emails a fresh code for a pending login.
func (h *HTTPEndpoint) LoginResend(r *router.Request) (any, error) {
	var req LoginResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResendOtp(r.Context(), usecase.ResendOtpInput{
		SessionToken: req.SessionToken,
	}); err != nil {
		return nil, err
	}

	return LoginResendResponse{}, nil
}

// Logout ends the authenticated session.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{
		SessionToken: req.SessionToken,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// RecentAttempts returns the caller's latest login attempts.
func (h *HTTPEndpoint) RecentAttempts(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.RecentAttempts(r.Context(), usecase.RecentAttemptsInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return RecentAttemptsResponse{
		Attempts: lo.Map(resp.Attempts, func(a entity.LoginAttempt, _ int) LoginAttemptItem {
			return LoginAttemptItem{
				Email:         a.Email,
				IPAddress:     a.IPAddress,
				UserAgent:     a.UserAgent,
				Success:       a.Success,
				FailureReason: a.FailureReason.String(),
				CreatedAt:     a.CreatedAt,
			}
		}),
	}, nil
}
