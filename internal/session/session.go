// Package session persists the authenticated-user record on the device. A
// single namespaced key-value record holds the cached identity; absence of a
// uid means logged out.
package session

import (
	"context"
	"fmt"
)

// Record is the persisted session state. It is always written wholesale so
// concurrent readers never observe a partially updated identity.
type Record struct {
	UID       string
	Email     string
	FirstName string
	LastName  string
	HasPIN    bool
}

// Repository persists the session record for one namespace.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (Record, bool, error)
	Clear(ctx context.Context) error
}

// Store is the session service object. Construct one at process start and
// pass it to every consumer; it carries no package-level state.
type Store struct {
	repo Repository
}

// NewStore builds a session store over the given repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// CacheIdentity upserts the full session record. Idempotent; overwrites every
// field in one write.
func (s *Store) CacheIdentity(ctx context.Context, uid, email, firstName, lastName string, hasPIN bool) error {
	if uid == "" {
		return fmt.Errorf("uid is required")
	}
	rec := Record{UID: uid, Email: email, FirstName: firstName, LastName: lastName, HasPIN: hasPIN}
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("cache identity: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a session record with a uid exists.
func (s *Store) IsLoggedIn(ctx context.Context) (bool, error) {
	rec, ok, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	return ok && rec.UID != "", nil
}

// HasPIN reports whether the cached identity has a payment PIN configured.
// Only meaningful while logged in.
func (s *Store) HasPIN(ctx context.Context) (bool, error) {
	rec, ok, err := s.repo.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	return rec.HasPIN, nil
}

// SetHasPIN updates only the hasPin flag, leaving the rest of the record
// intact.
func (s *Store) SetHasPIN(ctx context.Context, hasPIN bool) error {
	rec, ok, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || rec.UID == "" {
		return fmt.Errorf("no active session")
	}
	rec.HasPIN = hasPIN
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("update hasPin: %w", err)
	}
	return nil
}

// UID returns the cached user id, empty when logged out.
func (s *Store) UID(ctx context.Context) (string, error) {
	return s.field(ctx, func(r Record) string { return r.UID })
}

// Email returns the cached email, empty when never set.
func (s *Store) Email(ctx context.Context) (string, error) {
	return s.field(ctx, func(r Record) string { return r.Email })
}

// FirstName returns the cached first name, empty when never set.
func (s *Store) FirstName(ctx context.Context) (string, error) {
	return s.field(ctx, func(r Record) string { return r.FirstName })
}

// LastName returns the cached last name, empty when never set.
func (s *Store) LastName(ctx context.Context) (string, error) {
	return s.field(ctx, func(r Record) string { return r.LastName })
}

// Snapshot returns the whole record and whether one exists.
func (s *Store) Snapshot(ctx context.Context) (Record, bool, error) {
	return s.repo.Load(ctx)
}

// Clear removes the session record; IsLoggedIn returns false afterwards.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) field(ctx context.Context, pick func(Record) string) (string, error) {
	rec, ok, err := s.repo.Load(ctx)
	if err != nil || !ok {
		return "", err
	}
	return pick(rec), nil
}
