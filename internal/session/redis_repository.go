package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:v1:"

const (
	fieldUID       = "uid"
	fieldEmail     = "email"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldHasPIN    = "has_pin"
)

// RedisRepository persists the session record as a redis hash under a
// versioned, namespaced key. Writes are synchronous: Save returns only after
// redis acknowledges, and the whole record goes out in a single HSET so
// readers never see a torn record.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// NewRedisRepository builds a redis-backed session repository for the given
// namespace (one namespace per device profile).
func NewRedisRepository(client *redis.Client, namespace string) *RedisRepository {
	return &RedisRepository{client: client, key: sessionKeyPrefix + namespace}
}

// Save overwrites the full session record.
func (r *RedisRepository) Save(ctx context.Context, rec Record) error {
	fields := map[string]any{
		fieldUID:       rec.UID,
		fieldEmail:     rec.Email,
		fieldFirstName: rec.FirstName,
		fieldLastName:  rec.LastName,
		fieldHasPIN:    strconv.FormatBool(rec.HasPIN),
	}
	if err := r.client.HSet(ctx, r.key, fields).Err(); err != nil {
		return fmt.Errorf("persist session record: %w", err)
	}
	return nil
}

// Load fetches the record; the second return value is false when no record
// has ever been saved (or it was cleared).
func (r *RedisRepository) Load(ctx context.Context) (Record, bool, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("load session record: %w", err)
	}
	if len(values) == 0 {
		return Record{}, false, nil
	}

	rec := Record{
		UID:       values[fieldUID],
		Email:     values[fieldEmail],
		FirstName: values[fieldFirstName],
		LastName:  values[fieldLastName],
	}
	rec.HasPIN, _ = strconv.ParseBool(values[fieldHasPIN])
	return rec, true, nil
}

// Clear deletes every field in the namespace.
func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}
