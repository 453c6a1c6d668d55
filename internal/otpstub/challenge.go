// Package otpstub is a local stand-in for the backend OTP endpoints. It lets
// the device core and the mobile shell run full send/verify flows against
// localhost, with issued codes written to the log instead of an inbox.
package otpstub

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Challenge is one outstanding email code. The newest send for an address
// replaces any previous challenge.
type Challenge struct {
	ID        string
	Email     string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Verified  bool
}

// Expired reports whether the challenge can no longer be verified.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ChallengeRepository stores outstanding challenges keyed by email.
type ChallengeRepository interface {
	Put(ctx context.Context, ch Challenge) error
	Get(ctx context.Context, email string) (Challenge, bool, error)
	Delete(ctx context.Context, email string) error
}

type memoryChallengeRepository struct {
	mu         sync.RWMutex
	challenges map[string]Challenge
}

// NewMemoryChallengeRepository builds the in-memory challenge store the stub
// runs on.
func NewMemoryChallengeRepository() ChallengeRepository {
	return &memoryChallengeRepository{challenges: make(map[string]Challenge)}
}

func (r *memoryChallengeRepository) Put(_ context.Context, ch Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[ch.Email] = ch
	return nil
}

func (r *memoryChallengeRepository) Get(_ context.Context, email string) (Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.challenges[email]
	return ch, ok, nil
}

func (r *memoryChallengeRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.challenges, email)
	return nil
}

// NewChallenge issues a challenge for email using the provided code, valid
// for ttl.
func NewChallenge(email, code string, ttl time.Duration) Challenge {
	now := time.Now().UTC()
	return Challenge{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// RandomCode returns a 6-digit code from the OS entropy source.
func RandomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(fmt.Sprintf("entropy source unavailable: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
