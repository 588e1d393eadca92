package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"shopify-pricer/internal/adapters/shopify"
	"shopify-pricer/internal/app/usecases"
	"shopify-pricer/internal/config"
	infrahttp "shopify-pricer/internal/infra/http"
	"shopify-pricer/internal/infra/mysql"
	"shopify-pricer/internal/logging"
)

// Runtime holds what every job entrypoint wires up before it runs.
type Runtime struct {
	Config  *config.Config
	Logger  *logging.Logger
	Shopify *shopify.Client
	Runs    usecases.RunRecorder

	db *sqlx.DB
}

// New loads the full configuration and builds a Shopify client. Run history
// is attached only when MYSQL_HOST is set and the database answers.
func New() (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return nil, err
	}

	client, err := shopify.NewClient(cfg.Shopify, infrahttp.NewClient(cfg.Shopify.Timeout), rt.Logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Shopify = client
	return rt, nil
}

// NewLocal is New without a Shopify client, for jobs that only edit local
// files.
func NewLocal() (*Runtime, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, err
	}
	return newRuntime(cfg)
}

func newRuntime(cfg *config.Config) (*Runtime, error) {
	logger, err := logging.NewLogger(cfg.Logger, cfg.TelegramBot)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	rt := &Runtime{Config: cfg, Logger: logger}

	if cfg.Mysql.Enabled() {
		db, err := mysql.New(cfg.Mysql)
		if err != nil {
			logger.LogWarning("Run history disabled: " + err.Error())
			return rt, nil
		}
		repo := mysql.NewRunRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			logger.LogWarning("Run history disabled: " + err.Error())
			return rt, nil
		}
		rt.db = db
		rt.Runs = repo
	}
	return rt, nil
}

// Context is cancelled on SIGINT/SIGTERM and after timeout when positive.
func (r *Runtime) Context(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	withTimeout, cancel := context.WithTimeout(ctx, timeout)
	return withTimeout, func() {
		cancel()
		stop()
	}
}

func (r *Runtime) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
	r.Logger.Sync()
}
