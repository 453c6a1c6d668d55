package session

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"redis":  NewRedisRepository(client, "test"),
	}
}

func TestCacheIdentityRoundTrip(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(repo)
			ctx := context.Background()

			if err := store.CacheIdentity(ctx, "u-1", "user@example.com", "Amara", "Okafor", true); err != nil {
				t.Fatalf("cache identity: %v", err)
			}

			loggedIn, err := store.IsLoggedIn(ctx)
			if err != nil || !loggedIn {
				t.Fatalf("expected logged in, got %v err=%v", loggedIn, err)
			}

			if uid, _ := store.UID(ctx); uid != "u-1" {
				t.Fatalf("uid = %q", uid)
			}
			if email, _ := store.Email(ctx); email != "user@example.com" {
				t.Fatalf("email = %q", email)
			}
			if first, _ := store.FirstName(ctx); first != "Amara" {
				t.Fatalf("first name = %q", first)
			}
			if last, _ := store.LastName(ctx); last != "Okafor" {
				t.Fatalf("last name = %q", last)
			}
			if hasPIN, _ := store.HasPIN(ctx); !hasPIN {
				t.Fatal("hasPin = false")
			}
		})
	}
}

func TestCacheIdentityOverwritesWholesale(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(repo)
			ctx := context.Background()

			if err := store.CacheIdentity(ctx, "u-1", "old@example.com", "Old", "Name", true); err != nil {
				t.Fatalf("first cache: %v", err)
			}
			if err := store.CacheIdentity(ctx, "u-1", "new@example.com", "New", "Name", false); err != nil {
				t.Fatalf("second cache: %v", err)
			}

			rec, ok, err := store.Snapshot(ctx)
			if err != nil || !ok {
				t.Fatalf("snapshot: ok=%v err=%v", ok, err)
			}
			if rec.Email != "new@example.com" || rec.HasPIN {
				t.Fatalf("record not fully overwritten: %+v", rec)
			}
		})
	}
}

func TestSetHasPINOnlyTouchesFlag(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(repo)
			ctx := context.Background()

			if err := store.CacheIdentity(ctx, "u-1", "user@example.com", "Amara", "Okafor", false); err != nil {
				t.Fatalf("cache identity: %v", err)
			}
			if err := store.SetHasPIN(ctx, true); err != nil {
				t.Fatalf("set hasPin: %v", err)
			}

			rec, _, err := store.Snapshot(ctx)
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			if !rec.HasPIN {
				t.Fatal("hasPin not updated")
			}
			if rec.UID != "u-1" || rec.Email != "user@example.com" {
				t.Fatalf("other fields changed: %+v", rec)
			}
		})
	}
}

func TestSetHasPINWithoutSession(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	if err := store.SetHasPIN(context.Background(), true); err == nil {
		t.Fatal("expected error without an active session")
	}
}

func TestClearLogsOut(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(repo)
			ctx := context.Background()

			if err := store.CacheIdentity(ctx, "u-1", "user@example.com", "Amara", "Okafor", true); err != nil {
				t.Fatalf("cache identity: %v", err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}

			loggedIn, err := store.IsLoggedIn(ctx)
			if err != nil {
				t.Fatalf("is logged in: %v", err)
			}
			if loggedIn {
				t.Fatal("expected logged out after clear")
			}
			if uid, _ := store.UID(ctx); uid != "" {
				t.Fatalf("uid should be empty after clear, got %q", uid)
			}
		})
	}
}

func TestGettersBeforeAnyLogin(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	ctx := context.Background()

	loggedIn, err := store.IsLoggedIn(ctx)
	if err != nil || loggedIn {
		t.Fatalf("fresh store should be logged out, got %v err=%v", loggedIn, err)
	}
	if email, _ := store.Email(ctx); email != "" {
		t.Fatalf("expected empty email, got %q", email)
	}
	if hasPIN, _ := store.HasPIN(ctx); hasPIN {
		t.Fatal("expected hasPin false before login")
	}
}

func TestCacheIdentityRequiresUID(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	if err := store.CacheIdentity(context.Background(), "", "a@b.c", "A", "B", false); err == nil {
		t.Fatal("expected error for empty uid")
	}
}
