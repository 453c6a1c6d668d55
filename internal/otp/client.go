package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	sendPath   = "/sendEmailOtp"
	verifyPath = "/verifyEmailOtp"

	maxErrorBodyBytes = 64 << 10
)

// Client talks to the backend OTP endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds an OTP API client. timeout bounds each round-trip on top
// of whatever deadline the caller's context carries.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sendRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendEmailOTP asks the backend to issue a one-time code to email.
func (c *Client) SendEmailOTP(ctx context.Context, email string) error {
	status, body, err := c.post(ctx, sendPath, sendRequest{Email: email})
	if err != nil {
		return err
	}
	if status >= 200 && status < 300 {
		return nil
	}

	message := serverMessage(status, body)
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrEmailNotFound, message)
	}
	return &ServerError{Status: status, Message: message}
}

// VerifyEmailOTP submits a code for verification.
func (c *Client) VerifyEmailOTP(ctx context.Context, email, code string) error {
	status, body, err := c.post(ctx, verifyPath, verifyRequest{Email: email, OTP: code})
	if err != nil {
		return err
	}
	if status >= 200 && status < 300 {
		return nil
	}

	message := serverMessage(status, body)
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusGone, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidOrExpiredCode, message)
	}
	return &ServerError{Status: status, Message: message}
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("otp request failed", slog.String("path", path), slog.Any("error", err))
		return 0, nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		// Status line already arrived; treat the truncated body as absent.
		body = nil
	}
	return resp.StatusCode, body, nil
}

// serverMessage extracts the human-readable reason from an error body per the
// backend contract: the "error" field wins, then "message", then a generic
// fallback. An absent or unparsable body gets its own distinct message so
// support can tell the cases apart.
func serverMessage(status int, body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Sprintf("server error with unreadable body (HTTP %d)", status)
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Sprintf("server error with unreadable body (HTTP %d)", status)
	}
	if payload.Error != "" {
		return payload.Error
	}
	if payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("unknown server error (HTTP %d)", status)
}
