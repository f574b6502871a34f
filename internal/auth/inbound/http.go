package inbound

import (
	"context"

	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/router"
)

type uc interface {
	BeginLogin(ctx context.Context, in usecase.BeginLoginInput) (*usecase.BeginLoginOutput, error)
	CompleteLogin(ctx context.Context, in usecase.CompleteLoginInput) (*usecase.CompleteLoginOutput, error)
	ResendOtp(ctx context.Context, in usecase.ResendOtpInput) error

	Logout(ctx context.Context, in usecase.LogoutInput) error
	RecentAttempts(ctx context.Context, in usecase.RecentAttemptsInput) (*usecase.RecentAttemptsOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Two-step login
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/login/verify", end.LoginVerify)
	r.POST("/api/v1/auth/login/resend", end.LoginResend)

	// Session management (need authenticated)
	r.POST("/api/v1/auth/logout", end.Logout)
	r.GET("/api/v1/auth/attempts", end.RecentAttempts)
}
