package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasetyahadi/gatera/internal/auth/inbound"
	"github.com/prasetyahadi/gatera/internal/auth/outbound/db"
	"github.com/prasetyahadi/gatera/internal/auth/outbound/mailer"
	"github.com/prasetyahadi/gatera/internal/auth/outbound/mq"
	"github.com/prasetyahadi/gatera/internal/auth/outbound/session"
	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/clock"
	"github.com/prasetyahadi/gatera/internal/pkg/config"
	"github.com/prasetyahadi/gatera/internal/pkg/goroutine"
	"github.com/prasetyahadi/gatera/internal/pkg/hash"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
	"github.com/prasetyahadi/gatera/internal/pkg/mail"
	"github.com/prasetyahadi/gatera/internal/pkg/messaging"
	"github.com/prasetyahadi/gatera/internal/pkg/otp"
	"github.com/prasetyahadi/gatera/internal/pkg/router"
	"github.com/prasetyahadi/gatera/internal/pkg/uid"
	"github.com/prasetyahadi/gatera/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Otp        otp.OTP                    `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	sessAuth := session.NewStore(dep.CacheConn, dep.Instrument)
	mailAuth := mailer.New(dep.Mail, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoSession:   sessAuth,
		RepoMail:      mailAuth,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		OID:           dep.OID,
		Otp:           dep.Otp,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
