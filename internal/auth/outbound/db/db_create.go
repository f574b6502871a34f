package db

import (
	"context"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
)

func (s *DB) CreateOtpCode(ctx context.Context, in entity.OtpCode) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOtpCode")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO auth_otp_codes (id, user_id, code, created_at, expires_at, is_used, is_verified)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Code, in.CreatedAt, in.ExpiresAt)
	return s.mapError(err)
}

func (s *DB) CreateLoginAttempt(ctx context.Context, in entity.LoginAttempt) (err error) {
	ctx, span := s.startSpan(ctx, "CreateLoginAttempt")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO auth_login_attempts (id, user_id, email, ip_address, user_agent, success, failure_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.conn.Exec(ctx, query,
		in.ID, in.UserID, in.Email, in.IPAddress, in.UserAgent, in.Success, in.FailureReason, in.CreatedAt)
	return s.mapError(err)
}
