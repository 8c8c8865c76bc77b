package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("%s connected to DB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	return &App{
		Config: cfg,
		DB:     dbPool,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Infof("%s DB connection closed.", a.Config.AppName)
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
