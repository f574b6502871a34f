package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/prasetyahadi/gatera/internal/auth/entity"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, email, full_name, status, password
		FROM auth_users
		WHERE email = $1`

	var out entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, query, email).
		Scan(&out.ID, &out.Email, &out.FullName, &out.Status, &out.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

// GetLatestUnusedOtpCode returns the most recently created unused code
// matching (userID, code), regardless of expiry. Expiry is decided by the
// caller so an expired match is distinguishable from no match.
func (s *DB) GetLatestUnusedOtpCode(ctx context.Context, userID int64, code string) (_ *entity.OtpCode, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestUnusedOtpCode")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, code, created_at, expires_at, is_used, is_verified
		FROM auth_otp_codes
		WHERE user_id = $1 AND code = $2 AND is_used = FALSE
		ORDER BY created_at DESC
		LIMIT 1`

	var out entity.OtpCode
	err = s.conn.QueryRow(ctx, query, userID, code).
		Scan(&out.ID, &out.UserID, &out.Code, &out.CreatedAt, &out.ExpiresAt, &out.Used, &out.Verified)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) ListRecentLoginAttempts(ctx context.Context, userID int64, limit int32) (_ []entity.LoginAttempt, err error) {
	ctx, span := s.startSpan(ctx, "ListRecentLoginAttempts")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, email, ip_address, user_agent, success, failure_reason, created_at
		FROM auth_login_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LoginAttempt, error) {
		var la entity.LoginAttempt
		err := row.Scan(&la.ID, &la.UserID, &la.Email, &la.IPAddress, &la.UserAgent,
			&la.Success, &la.FailureReason, &la.CreatedAt)
		return la, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}
