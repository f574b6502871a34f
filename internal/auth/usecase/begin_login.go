package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/mail"
)

type BeginLoginInput struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
	IPAddress string
	UserAgent string
}

type BeginLoginOutput struct {
	SessionToken string
}

// BeginLogin verifies credentials and, when they hold, issues and emails a
// one-time code, leaving the caller with an awaiting-OTP session token.
func (s *Usecase) BeginLogin(ctx context.Context, in BeginLoginInput) (*BeginLoginOutput, error) {
	ctx, span := s.startSpan(ctx, "BeginLogin")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	attempt := entity.LoginAttempt{
		Email:     email,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	}

	user, err := s.repoDB.GetUserLoginInfo(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		attempt.FailureReason = entity.FailureReasonUserNotFound
		s.recordAttempt(ctx, attempt)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	attempt.UserID = &user.ID

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		attempt.FailureReason = entity.FailureReasonInvalidCredentials
		s.recordAttempt(ctx, attempt)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	// The disabled branch is only reachable with valid credentials, so the
	// distinct response cannot be used to probe account status.
	if user.Status != entity.UserStatusActive {
		slog.WarnContext(ctx, "user account is disabled", "user_id", user.ID)
		attempt.FailureReason = entity.FailureReasonAccountDisabled
		s.recordAttempt(ctx, attempt)
		return nil, goerror.NewBusiness("account is disabled", goerror.CodeForbidden)
	}

	otpRow, err := s.issueOtpCode(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue otp code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMail.Send(ctx, s.buildOtpMail(user, otpRow.Code)); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", user.ID, "error", err)
		attempt.FailureReason = entity.FailureReasonDeliveryFailed
		s.recordAttempt(ctx, attempt)
		return nil, goerror.NewBusiness("failed to send verification code", goerror.CodeUnavailable)
	}

	sToken := s.oid.Generate()
	sTokenHash, err := s.hmac.Hash(sToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoSession.SaveSession(ctx, string(sTokenHash), entity.LoginSession{
		State:        entity.SessionStateAwaitingOtp,
		UserID:       user.ID,
		Email:        user.Email,
		PendingOtpID: otpRow.ID,
		CreatedAt:    s.clock.Now(),
	}, s.cfg.GetMinute("modules.auth.session_ttl_minutes")); err != nil {
		slog.ErrorContext(ctx, "failed to save awaiting otp session", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	attempt.Success = true
	s.recordAttempt(ctx, attempt)

	return &BeginLoginOutput{SessionToken: sToken}, nil
}

func (s *Usecase) buildOtpMail(user *entity.UserLoginInfo, code string) mail.Message {
	minutes := s.cfg.GetInt("modules.auth.otp_expiry_minutes")
	if minutes <= 0 {
		minutes = int(defaultOtpExpiry.Minutes())
	}

	return mail.Message{
		To:      []string{user.Email},
		Subject: "Your verification code",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n\nIf you did not try to sign in, you can ignore this email.",
			user.FullName, code, minutes,
		),
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p><p>If you did not try to sign in, you can ignore this email.</p>",
			user.FullName, code, minutes,
		),
	}
}
