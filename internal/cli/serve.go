package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shofy/internal/config"
	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/httpserver"
	"github.com/Skotchmaster/shofy/internal/repo"
	"github.com/Skotchmaster/shofy/internal/search"
	"github.com/Skotchmaster/shofy/internal/service"
	"github.com/Skotchmaster/shofy/pkg/db"
	"github.com/Skotchmaster/shofy/pkg/logging"
	loggingmw "github.com/Skotchmaster/shofy/pkg/middleware/logging"
	"github.com/Skotchmaster/shofy/pkg/middleware/metrics"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.EnvFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	e      *echo.Echo
	db     *gorm.DB
	events events.Publisher
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	r := &repo.GormRepo{DB: gdb}
	if cfg.AutoMigrate {
		if err := r.Migrate(initCtx); err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			_ = db.Close(gdb)
			return nil, err
		}
		pub = prod
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var index search.Index = search.Disabled{}
	if cfg.ESURL != "" {
		es, err := search.NewESIndex(initCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			_ = pub.Close()
			_ = db.Close(gdb)
			return nil, err
		}
		index = es
	} else {
		logger.Warn("search_disabled", "reason", "ES_URL is empty")
	}

	m := metrics.New(cfg.ServiceName)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(m.Middleware())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		DB:       gdb,
		Users:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Events: pub}},
		Stores:   &httpserver.StoreHTTP{Svc: &service.StoreService{Repo: r, Events: pub}},
		Products: &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Events: pub, Index: index}},
		Cart:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: pub}},
		Metrics:  m,
	})

	return &app{cfg: cfg, logger: logger, e: e, db: gdb, events: pub}, nil
}

func (a *app) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(a.db); err != nil {
		a.logger.Error("db_close_error", "error", err)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + strconv.Itoa(cfg.ServerPort)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "addr", addr)
		if err := a.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := a.e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	logger.Info("shutdown_complete")
	return nil
}
