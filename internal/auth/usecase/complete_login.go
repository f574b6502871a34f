package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
)

type CompleteLoginInput struct {
	SessionToken string `validate:"required"`
	Code         string `validate:"required,len=6,numeric"`
}

type CompleteLoginOutput struct {
	AccessToken string
}

// CompleteLogin consumes the pending OTP and promotes the session to
// authenticated. A wrong or expired code leaves the session untouched, so the
// caller may retry or ask for a resend.
func (s *Usecase) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginOutput, error) {
	ctx, span := s.startSpan(ctx, "CompleteLogin")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.SessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "error", err)
		return nil, goerror.NewServer(err)
	}

	sess, err := s.repoSession.GetSession(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login session not found")
		return nil, goerror.NewBusiness("no login in progress", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get login session", "error", err)
		return nil, goerror.NewServer(err)
	}

	if sess.State != entity.SessionStateAwaitingOtp {
		slog.WarnContext(ctx, "login session is not awaiting otp", "user_id", sess.UserID, "state", sess.State)
		return nil, goerror.NewBusiness("no login in progress", goerror.CodeUnauthorized)
	}

	otpRow, err := s.repoDB.GetLatestUnusedOtpCode(ctx, sess.UserID, in.Code)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp code not found", "user_id", sess.UserID)
		return nil, goerror.NewBusiness("invalid verification code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp code", "user_id", sess.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if otpRow.Expired(s.clock.Now()) {
		slog.WarnContext(ctx, "otp code expired", "user_id", sess.UserID, "otp_id", otpRow.ID)
		return nil, goerror.NewBusiness("verification code has expired", goerror.CodeUnauthorized)
	}

	consumed, err := s.repoDB.MarkOtpCodeConsumed(ctx, otpRow.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp code", "user_id", sess.UserID, "otp_id", otpRow.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !consumed {
		slog.WarnContext(ctx, "otp code already consumed", "user_id", sess.UserID, "otp_id", otpRow.ID)
		return nil, goerror.NewBusiness("invalid verification code", goerror.CodeUnauthorized)
	}

	acToken, err := s.jwt.Generate(sess.UserID, sess.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", sess.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoSession.SaveSession(ctx, string(tokenHash), entity.LoginSession{
		State:     entity.SessionStateAuthenticated,
		UserID:    sess.UserID,
		Email:     sess.Email,
		CreatedAt: sess.CreatedAt,
	}, s.cfg.GetMinute("modules.auth.authenticated_ttl_minutes")); err != nil {
		slog.ErrorContext(ctx, "failed to promote login session", "user_id", sess.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CompleteLoginOutput{AccessToken: acToken}, nil
}
