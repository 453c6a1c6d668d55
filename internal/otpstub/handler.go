package otpstub

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kwanza-pay/kwanza_core/internal/identity"
)

// Handler serves the two OTP endpoints against the challenge repository and
// a seeded user directory.
type Handler struct {
	repo   ChallengeRepository
	users  map[string]identity.Identity
	codeFn func() string
	ttl    time.Duration
	logger *slog.Logger
}

// NewHandler wires the stub endpoints. codeFn may be nil (random codes).
func NewHandler(repo ChallengeRepository, users []identity.Identity, codeFn func() string, ttl time.Duration, logger *slog.Logger) *Handler {
	if codeFn == nil {
		codeFn = RandomCode
	}
	directory := make(map[string]identity.Identity, len(users))
	for _, u := range users {
		directory[strings.ToLower(u.Email)] = u
	}
	return &Handler{repo: repo, users: directory, codeFn: codeFn, ttl: ttl, logger: logger}
}

type sendRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendEmailOTP issues a code for a known email and logs it in place of
// sending mail.
func (h *Handler) SendEmailOTP(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return errorJSON(c, http.StatusBadRequest, "email is required")
	}
	if _, known := h.users[email]; !known {
		return errorJSON(c, http.StatusNotFound, "email not found")
	}

	ch := NewChallenge(email, h.codeFn(), h.ttl)
	if err := h.repo.Put(c.UserContext(), ch); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "could not store challenge")
	}

	// Stub only: the code goes to the log, never to a mailbox.
	h.logger.Info("otp issued", slog.String("email", email), slog.String("code", ch.Code), slog.Time("expires_at", ch.ExpiresAt))

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "otp sent"})
}

// VerifyEmailOTP checks a submitted code against the outstanding challenge.
func (h *Handler) VerifyEmailOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.OTP == "" {
		return errorJSON(c, http.StatusBadRequest, "email and otp are required")
	}

	ch, ok, err := h.repo.Get(c.UserContext(), email)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "could not load challenge")
	}
	if !ok || ch.Expired(time.Now().UTC()) {
		return errorJSON(c, http.StatusBadRequest, "Invalid or expired code")
	}
	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(req.OTP)) != 1 {
		return errorJSON(c, http.StatusBadRequest, "Invalid or expired code")
	}

	// One successful verification consumes the challenge.
	if err := h.repo.Delete(c.UserContext(), email); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "could not consume challenge")
	}

	h.logger.Info("otp verified", slog.String("email", email))
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "otp verified"})
}

// errorJSON writes the backend error contract: a JSON body with an "error"
// field the device client inspects first.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
