// Package app assembles the device core. One App is constructed at process
// start and passed by reference to every consumer; nothing in the module
// keeps package-level mutable state.
package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/kwanza-pay/kwanza_core/internal/config"
	"github.com/kwanza-pay/kwanza_core/internal/infra"
	"github.com/kwanza-pay/kwanza_core/internal/otp"
	"github.com/kwanza-pay/kwanza_core/internal/session"
	"github.com/kwanza-pay/kwanza_core/internal/txid"
)

// App owns the identity, session and transaction-integrity services.
type App struct {
	Session *session.Store
	OTP     *otp.ChallengeController
	TxIDs   *txid.Generator

	cfg    config.Config
	logger *slog.Logger
	cache  *redis.Client
}

// New connects the session backend and builds the core services. When
// cfg.RedisURL is empty the session store runs on the in-memory repository,
// matching the dev fallback the rest of the stack uses.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var repo session.Repository
	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL, cfg.AppName)
		if err != nil {
			return nil, err
		}
		a.cache = cache
		repo = session.NewRedisRepository(cache, cfg.SessionNamespace)
	} else {
		logger.Warn("REDIS_URL not set, session state will not survive restarts")
		repo = session.NewMemoryRepository()
	}

	a.Session = session.NewStore(repo)

	client := otp.NewClient(cfg.OTPBaseURL, cfg.HTTPTimeout, logger)
	a.OTP = otp.NewChallengeController(client, cfg.ResendCooldown, logger)

	a.TxIDs = txid.NewGenerator()

	return a, nil
}

// Shutdown cancels background activity and releases the session backend.
func (a *App) Shutdown(ctx context.Context) error {
	a.OTP.Close()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			return err
		}
		a.cache = nil
	}

	a.logger.InfoContext(ctx, "device core shut down")
	return nil
}
