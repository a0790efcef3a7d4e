package app

import (
	"context"
	"net/http"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goroutine"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/mail"
	"github.com/shandysiswandi/shopdesk/internal/pkg/messaging"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
	"github.com/shandysiswandi/shopdesk/internal/pkg/storage"
	"github.com/shandysiswandi/shopdesk/internal/pkg/telegram"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation
	loc    *time.Location

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	jwt       jwt.JWT
	crypt     crypt.Encryptor
	telegram  telegram.Bot

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage
	casbin    *casbin.Enforcer
	gate      gate.Authorizer
	notifier  notify.Sender
	scheduler *scheduler.Scheduler

	// server
	router     *router.Router
	sseRouter  *router.Router
	cronGuard  router.Middleware
	httpServer *http.Server
	sseServer  *http.Server

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
	app.initStorage()
	app.initMessaging()
	app.initGate()
	app.initNotifier()
	app.initScheduler()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
