package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/tokengate/auth-service"
)

type App struct {
	config *gconfig.Container[*auth.AppConfig]
	bunDB  *bun.DB
	repo   auth.RepositoryManager
	auther *auth.Auther
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) Config() *auth.AppConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("authsvc"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&auth.AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		lgr.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		lgr.Error("unable to initialize persistence", "error", err)
		os.Exit(1)
	}

	if err := WithHTTPServer(app); err != nil {
		lgr.Error("unable to initialize http server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := app.srv.Listen(app.Config().GetAddr()); err != nil {
			lgr.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		lgr.Error("shutdown error", "error", err)
	}

	if app.bunDB != nil {
		_ = app.bunDB.Close()
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().GetDSN())
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := auth.CreateSchema(ctx, db); err != nil {
		return err
	}

	app.bunDB = db
	// Principal ids are derived from the email address so re-created
	// accounts keep a stable identity across environments.
	app.repo = auth.NewRepositoryManager(db, auth.WithDeterministicIDs())

	return app.repo.Validate()
}

func WithHTTPServer(app *App) error {
	provider := auth.NewUserProvider(app.repo).
		WithLogger(app.GetLogger("auth:store"))

	auther, err := auth.NewAuthenticator(provider, app.Config())
	if err != nil {
		return err
	}
	auther.WithLogger(app.GetLogger("auth"))

	app.auther = auther

	controller := auth.NewAuthController(
		auth.WithControllerAuther(auther),
		auth.WithControllerLogger(app.GetLogger("auth:http")),
		auth.WithControllerDebug(app.Config().Server.Debug),
	)

	srv := fiber.New(fiber.Config{
		AppName:               "auth-service",
		DisableStartupMessage: !app.Config().Server.Debug,
	})

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	adminGate := auth.NewAdminGate(auther.TokenService().Validate)
	auth.RegisterAuthRoutes(srv, controller, adminGate)

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
