package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	otp       otp.OTP
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
