package usecase

import (
	"context"
	"log/slog"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
)

type RecentAttemptsInput struct {
	Limit int32
}

type RecentAttemptsOutput struct {
	Attempts []entity.LoginAttempt
}

// RecentAttempts returns the caller's most recent login attempts, newest
// first, capped by modules.auth.max_recent_attempts.
func (s *Usecase) RecentAttempts(ctx context.Context, in RecentAttemptsInput) (*RecentAttemptsOutput, error) {
	ctx, span := s.startSpan(ctx, "RecentAttempts")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	maxLimit := int32(s.cfg.GetInt("modules.auth.max_recent_attempts"))
	if maxLimit <= 0 {
		maxLimit = 20
	}

	limit := in.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	attempts, err := s.repoDB.ListRecentLoginAttempts(ctx, clm.UserID, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list login attempts", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RecentAttemptsOutput{Attempts: attempts}, nil
}
