package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwanza-pay/kwanza_core/internal/config"
	"github.com/kwanza-pay/kwanza_core/internal/identity"
	"github.com/kwanza-pay/kwanza_core/internal/logging"
	"github.com/kwanza-pay/kwanza_core/internal/otpstub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.ForApp(cfg.LogLevel, "otpstub", cfg.AppEnv)

	app := otpstub.NewApp(otpstub.Options{
		AppName: cfg.AppName + " OTP stub",
		Users:   seedUsers(),
		Logger:  logger,
	})

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- app.Listen(cfg.Address())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("otp stub exited cleanly")
}

// seedUsers is the directory the stub accepts send requests for. Codes are
// printed to the log, so any of these addresses works offline.
func seedUsers() []identity.Identity {
	now := time.Now().UTC()
	return []identity.Identity{
		{ID: "u-1", FirstName: "Amara", LastName: "Okafor", Email: "user@example.com", Phone: "+244900000001", ReferralCode: "AMARA01", CreatedAt: now},
		{ID: "u-2", FirstName: "Kito", LastName: "Mbala", Email: "kito@example.com", Phone: "+244900000002", ReferralCode: "KITO02", HasPIN: true, CreatedAt: now},
	}
}
