package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/clock"
	"github.com/prasetyahadi/gatera/internal/pkg/config"
	"github.com/prasetyahadi/gatera/internal/pkg/goroutine"
	"github.com/prasetyahadi/gatera/internal/pkg/hash"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
	"github.com/prasetyahadi/gatera/internal/pkg/mail"
	"github.com/prasetyahadi/gatera/internal/pkg/otp"
	"github.com/prasetyahadi/gatera/internal/pkg/uid"
	"github.com/prasetyahadi/gatera/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// defaultOtpExpiry applies when modules.auth.otp_expiry_minutes is unset.
const defaultOtpExpiry = 2 * time.Minute

type LoginActivityEvent struct {
	UserID        *int64
	Email         string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	OccurredAt    time.Time
}

type repoMessaging interface {
	PublishLoginActivity(ctx context.Context, msg LoginActivityEvent) error
}

type repoDB interface {
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetLatestUnusedOtpCode(ctx context.Context, userID int64, code string) (*entity.OtpCode, error)
	ListRecentLoginAttempts(ctx context.Context, userID int64, limit int32) ([]entity.LoginAttempt, error)

	CreateOtpCode(ctx context.Context, in entity.OtpCode) error
	CreateLoginAttempt(ctx context.Context, in entity.LoginAttempt) error

	MarkOtpCodeConsumed(ctx context.Context, id int64) (bool, error)
}

type repoSession interface {
	SaveSession(ctx context.Context, tokenHash string, in entity.LoginSession, ttl time.Duration) error
	GetSession(ctx context.Context, tokenHash string) (*entity.LoginSession, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB        repoDB
	repoSession   repoSession
	repoMail      repoMail
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	otp           otp.OTP
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	auditDrops atomic.Int64
}

type Dependency struct {
	RepoDB        repoDB
	RepoSession   repoSession
	RepoMail      repoMail
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Otp           otp.OTP
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoSession:   dep.RepoSession,
		repoMail:      dep.RepoMail,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		oid:           dep.OID,
		otp:           dep.Otp,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

// AuditDrops reports how many audit writes have been swallowed so far.
func (s *Usecase) AuditDrops() int64 {
	return s.auditDrops.Load()
}

// recordAttempt appends to the audit trail and publishes a login-activity
// event, both best-effort: the caller's outcome never depends on either.
func (s *Usecase) recordAttempt(ctx context.Context, attempt entity.LoginAttempt) {
	attempt.ID = s.uid.Generate()
	attempt.CreatedAt = s.clock.Now()

	if err := s.repoDB.CreateLoginAttempt(ctx, attempt); err != nil {
		s.auditDrops.Inc()
		slog.ErrorContext(ctx, "failed to repo create login attempt",
			"email", attempt.Email, "drops", s.auditDrops.Load(), "error", err)
	}

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishLoginActivity(ctx, LoginActivityEvent{
			UserID:        attempt.UserID,
			Email:         attempt.Email,
			IPAddress:     attempt.IPAddress,
			UserAgent:     attempt.UserAgent,
			Success:       attempt.Success,
			FailureReason: attempt.FailureReason.String(),
			OccurredAt:    attempt.CreatedAt,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish login activity", "email", attempt.Email, "error", err)
		}
		return nil
	})
}

// issueOtpCode creates and persists a fresh code for the user.
func (s *Usecase) issueOtpCode(ctx context.Context, userID int64) (*entity.OtpCode, error) {
	code, err := s.otp.Generate()
	if err != nil {
		return nil, err
	}

	window := s.cfg.GetMinute("modules.auth.otp_expiry_minutes")
	if window <= 0 {
		window = defaultOtpExpiry
	}

	now := s.clock.Now()
	row := entity.OtpCode{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(window),
	}

	if err := s.repoDB.CreateOtpCode(ctx, row); err != nil {
		return nil, err
	}

	return &row, nil
}
