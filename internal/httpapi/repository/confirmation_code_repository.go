package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound is returned when no confirmation code is pending for a
// username (never issued, already consumed, or expired out of Redis).
var ErrCodeNotFound = errors.New("confirmation code not found")

// ConfirmationCodeRepository stores pending signup confirmation codes.
// Only the bcrypt hash of a code is persisted; expiry is delegated to the
// store's TTL.
type ConfirmationCodeRepository interface {
	Save(ctx context.Context, username, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

type confirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository connects to Redis and verifies the
// connection before returning the repository.
func NewConfirmationCodeRepository(addr, password string) (ConfirmationCodeRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &confirmationCodeRepository{client: rdb}, nil
}

// NewConfirmationCodeRepositoryWithClient wraps an existing client, used
// by tests that inject a fake.
func NewConfirmationCodeRepositoryWithClient(client *redis.Client) ConfirmationCodeRepository {
	return &confirmationCodeRepository{client: client}
}

func codeKey(username string) string {
	return fmt.Sprintf("confirmation_code:user:%s", username)
}

func (r *confirmationCodeRepository) Save(ctx context.Context, username, codeHash string, ttl time.Duration) error {
	return r.client.Set(ctx, codeKey(username), codeHash, ttl).Err()
}

func (r *confirmationCodeRepository) Get(ctx context.Context, username string) (string, error) {
	hash, err := r.client.Get(ctx, codeKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (r *confirmationCodeRepository) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, codeKey(username)).Err()
}
