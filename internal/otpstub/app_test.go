package otpstub

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kwanza-pay/kwanza_core/internal/identity"
	"github.com/kwanza-pay/kwanza_core/internal/logging"
)

func newStub(t *testing.T, codeFn func() string, ttl time.Duration) *fiber.App {
	t.Helper()
	return NewApp(Options{
		AppName: "otpstub-test",
		Users:   []identity.Identity{{ID: "u-1", Email: "user@example.com", FirstName: "Amara", LastName: "Okafor"}},
		CodeFn:  codeFn,
		TTL:     ttl,
		Logger:  logging.Discard(),
	})
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	decoded := map[string]string{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", payload, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestSendAndVerifyHappyPath(t *testing.T) {
	app := newStub(t, func() string { return "424242" }, time.Minute)

	status, body := postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)
	if status != fiber.StatusOK || body["message"] != "otp sent" {
		t.Fatalf("send: status=%d body=%v", status, body)
	}

	status, body = postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"424242"}`)
	if status != fiber.StatusOK || body["message"] != "otp verified" {
		t.Fatalf("verify: status=%d body=%v", status, body)
	}
}

func TestSendUnknownEmail(t *testing.T) {
	app := newStub(t, nil, time.Minute)

	status, body := postJSON(t, app, "/sendEmailOtp", `{"email":"nobody@example.com"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body["error"] != "email not found" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	app := newStub(t, func() string { return "424242" }, time.Minute)

	postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)

	status, body := postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"000000"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["error"] != "Invalid or expired code" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	app := newStub(t, func() string { return "424242" }, time.Millisecond)

	postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)
	time.Sleep(10 * time.Millisecond)

	status, body := postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"424242"}`)
	if status != fiber.StatusBadRequest || body["error"] != "Invalid or expired code" {
		t.Fatalf("expired code accepted: status=%d body=%v", status, body)
	}
}

func TestResendReplacesCode(t *testing.T) {
	codes := []string{"111111", "222222"}
	app := newStub(t, func() string { code := codes[0]; codes = codes[1:]; return code }, time.Minute)

	postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)
	postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)

	// The first code is superseded by the resend.
	status, _ := postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"111111"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("stale code should be rejected, got %d", status)
	}
	status, _ = postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"222222"}`)
	if status != fiber.StatusOK {
		t.Fatalf("latest code should verify, got %d", status)
	}
}

func TestVerificationConsumesChallenge(t *testing.T) {
	app := newStub(t, func() string { return "424242" }, time.Minute)

	postJSON(t, app, "/sendEmailOtp", `{"email":"user@example.com"}`)

	if status, _ := postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"424242"}`); status != fiber.StatusOK {
		t.Fatalf("first verification failed: %d", status)
	}
	if status, _ := postJSON(t, app, "/verifyEmailOtp", `{"email":"user@example.com","otp":"424242"}`); status != fiber.StatusBadRequest {
		t.Fatalf("replayed code should be rejected, got %d", status)
	}
}

func TestMissingEmail(t *testing.T) {
	app := newStub(t, nil, time.Minute)

	status, body := postJSON(t, app, "/sendEmailOtp", `{}`)
	if status != fiber.StatusBadRequest || body["error"] == "" {
		t.Fatalf("expected 400 with error body, got status=%d body=%v", status, body)
	}
}
