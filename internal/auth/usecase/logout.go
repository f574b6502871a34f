package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
)

type LogoutInput struct {
	SessionToken string `validate:"required"`
}

// Logout deletes an authenticated session, returning the caller to the
// unauthenticated state.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

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
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get login session", "error", err)
		return goerror.NewServer(err)
	}

	if sess.State != entity.SessionStateAuthenticated || sess.UserID != clm.UserID {
		slog.WarnContext(ctx, "logout on a session that is not authenticated", "user_id", clm.UserID, "state", sess.State)
		return goerror.NewBusiness("not logged in", goerror.CodeUnauthorized)
	}

	if err := s.repoSession.DeleteSession(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete login session", "user_id", sess.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
