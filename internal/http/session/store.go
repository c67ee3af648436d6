package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "linkdesk:session:"

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Data is what a session remembers about the logged-in admin.
type Data struct {
	AdminID   uint      `json:"admin_id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports whether the session was granted role at login.
func (d *Data) HasRole(role string) bool {
	return d != nil && slices.Contains(d.Roles, role)
}

// Store keeps sessions in Redis under random ids with a sliding TTL.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewStore returns a Store; every read pushes expiry ttl into the future.
func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is the idle lifetime of a session.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create persists data under a fresh id and returns the id.
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get loads the session and refreshes its expiry.
func (s *Store) Get(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	payload, err := s.rdb.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
