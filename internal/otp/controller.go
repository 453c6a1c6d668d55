package otp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kwanza-pay/kwanza_core/internal/result"
)

// eventBuffer bounds how many unconsumed one-shot results the controller
// retains. Overlapping calls are rare; 16 is far beyond anything a user can
// trigger before the shell drains the channel.
const eventBuffer = 16

// ChallengeController orchestrates OTP issuance and verification for one
// flow (password reset, email confirmation, account creation).
//
// Outcomes are published two ways: a latest-state Holder per operation for
// repeatable observation, and a one-shot Event per call on Events() so a
// result is acted on at most once even when the observing screen re-attaches.
//
// The controller does not refuse SendCode during the cooldown window; the
// shell gates the resend action on CanResend. Overlapping calls are allowed
// and the holders are last-writer-wins, but every call still produces its own
// Event.
type ChallengeController struct {
	client   *Client
	cooldown time.Duration
	logger   *slog.Logger

	sendState   *result.Holder[string]
	verifyState *result.Holder[string]
	events      chan *result.Event[string]
	timer       *CooldownTimer

	mu            sync.Mutex
	challengeOpen bool
}

// NewChallengeController builds a controller around an API client. cooldown
// is the resend-disabled window started on each successful send.
func NewChallengeController(client *Client, cooldown time.Duration, logger *slog.Logger) *ChallengeController {
	return &ChallengeController{
		client:      client,
		cooldown:    cooldown,
		logger:      logger,
		sendState:   result.NewHolder[string](),
		verifyState: result.NewHolder[string](),
		events:      make(chan *result.Event[string], eventBuffer),
		timer:       NewCooldownTimer(),
	}
}

// SendCode asks the backend to issue a code to email. Returns immediately;
// the outcome arrives on SendState and Events. A successful send starts the
// cooldown window; a failed one leaves it untouched so the user may retry at
// once.
func (c *ChallengeController) SendCode(ctx context.Context, email string) {
	c.mu.Lock()
	c.challengeOpen = true
	c.mu.Unlock()

	c.sendState.Set(result.Loading[string]())

	go func() {
		err := c.client.SendEmailOTP(ctx, email)
		if err != nil {
			c.logger.Warn("send otp failed", slog.String("email", email), slog.Any("error", err))
			c.publish(c.sendState, result.Failure[string](err.Error()))
			return
		}

		c.timer.Start(c.cooldown)
		c.logger.Info("otp sent", slog.String("email", email), slog.Duration("cooldown", c.cooldown))
		c.publish(c.sendState, result.Success(email))
	}()
}

// VerifyCode submits code for verification. Returns immediately; the outcome
// arrives on VerifyState and Events. A rejection carries the server-provided
// reason verbatim and leaves the challenge open for another attempt.
func (c *ChallengeController) VerifyCode(ctx context.Context, email, code string) {
	c.mu.Lock()
	open := c.challengeOpen
	c.mu.Unlock()

	if !open {
		c.publish(c.verifyState, result.Failure[string](ErrNoActiveChallenge.Error()))
		return
	}

	c.verifyState.Set(result.Loading[string]())

	go func() {
		err := c.client.VerifyEmailOTP(ctx, email, code)
		if err != nil {
			c.logger.Warn("verify otp failed", slog.String("email", email), slog.Any("error", err))
			c.publish(c.verifyState, result.Failure[string](err.Error()))
			return
		}

		c.logger.Info("otp verified", slog.String("email", email))
		c.publish(c.verifyState, result.Success(email))
	}()
}

// SendState exposes the latest send outcome for repeatable observation.
func (c *ChallengeController) SendState() *result.Holder[string] { return c.sendState }

// VerifyState exposes the latest verify outcome for repeatable observation.
func (c *ChallengeController) VerifyState() *result.Holder[string] { return c.verifyState }

// Events yields one Event per completed call. Each event is consumable
// exactly once; overlapping calls are never collapsed into one event.
func (c *ChallengeController) Events() <-chan *result.Event[string] { return c.events }

// CanResend reports whether the resend action should be enabled.
func (c *ChallengeController) CanResend() bool { return !c.timer.Active() }

// CooldownRemaining returns the time left before resend re-enables.
func (c *ChallengeController) CooldownRemaining() time.Duration { return c.timer.Remaining() }

// Close cancels the cooldown timer. No state is emitted afterwards by the
// timer; in-flight requests still complete and their results are simply left
// unconsumed.
func (c *ChallengeController) Close() {
	c.timer.Cancel()
}

func (c *ChallengeController) publish(holder *result.Holder[string], res result.Result[string]) {
	holder.Set(res)
	select {
	case c.events <- result.NewEvent(res):
	default:
		c.logger.Warn("otp event buffer full, dropping oldest")
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- result.NewEvent(res):
		default:
		}
	}
}
