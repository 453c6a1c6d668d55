package otpstub

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/kwanza-pay/kwanza_core/internal/identity"
)

const (
	defaultChallengeTTL = 5 * time.Minute
	requestIDHeader     = "X-Request-ID"
)

// Options configures the stub server.
type Options struct {
	AppName string
	Users   []identity.Identity
	CodeFn  func() string // nil means random 6-digit codes
	TTL     time.Duration // challenge validity, default 5 minutes
	Logger  *slog.Logger
}

// NewApp assembles the Fiber application serving the stub OTP endpoints.
func NewApp(opts Options) *fiber.App {
	if opts.TTL <= 0 {
		opts.TTL = defaultChallengeTTL
	}

	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestID())
	app.Use(accessLog(opts.Logger))

	handler := NewHandler(NewMemoryChallengeRepository(), opts.Users, opts.CodeFn, opts.TTL, opts.Logger)

	app.Post("/sendEmailOtp", handler.SendEmailOTP)
	app.Post("/verifyEmailOtp", handler.VerifyEmailOTP)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}

// requestID ensures each request carries a stable identifier for tracing.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
			c.Set(requestIDHeader, reqID)
		}
		c.Locals(requestIDHeader, reqID)
		return c.Next()
	}
}

// accessLog emits one structured log line per request.
func accessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
		}
		if reqID, _ := c.Locals(requestIDHeader).(string); reqID != "" {
			attrs = append(attrs, slog.String("request_id", reqID))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
