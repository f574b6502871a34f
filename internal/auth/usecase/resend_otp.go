package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
)

type ResendOtpInput struct {
	SessionToken string `validate:"required"`
}

// ResendOtp issues a fresh code for an awaiting-OTP session and rebinds the
// session to it. Earlier codes stay valid until they expire or are consumed.
func (s *Usecase) ResendOtp(ctx context.Context, in ResendOtpInput) error {
	ctx, span := s.startSpan(ctx, "ResendOtp")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.SessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "error", err)
		return goerror.NewServer(err)
	}

	sess, err := s.repoSession.GetSession(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login session not found")
		return goerror.NewBusiness("no login in progress", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get login session", "error", err)
		return goerror.NewServer(err)
	}

	if sess.State != entity.SessionStateAwaitingOtp {
		slog.WarnContext(ctx, "login session is not awaiting otp", "user_id", sess.UserID, "state", sess.State)
		return goerror.NewBusiness("no login in progress", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserLoginInfo(ctx, sess.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "user_id", sess.UserID, "error", err)
		return goerror.NewServer(err)
	}

	otpRow, err := s.issueOtpCode(ctx, sess.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue otp code", "user_id", sess.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMail.Send(ctx, s.buildOtpMail(user, otpRow.Code)); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", sess.UserID, "error", err)
		return goerror.NewBusiness("failed to send verification code", goerror.CodeUnavailable)
	}

	if err := s.repoSession.SaveSession(ctx, string(tokenHash), entity.LoginSession{
		State:        entity.SessionStateAwaitingOtp,
		UserID:       sess.UserID,
		Email:        sess.Email,
		PendingOtpID: otpRow.ID,
		CreatedAt:    sess.CreatedAt,
	}, s.cfg.GetMinute("modules.auth.session_ttl_minutes")); err != nil {
		slog.ErrorContext(ctx, "failed to rebind login session otp", "user_id", sess.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
