package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sisrekomact/business/student"
	"sisrekomact/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type TokenRepository struct {
	client *redis.Client
}

var _ student.TokenStore = (*TokenRepository)(nil)

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func sessionKey(studentID string) string {
	return fmt.Sprintf("token:student:%s", studentID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// StoreToken records the latest session of a student; a new login replaces
// the previous session.
func (r *TokenRepository) StoreToken(ctx context.Context, session domain.TokenSession, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	previous, err := r.GetSession(ctx, session.StudentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	pipe := r.client.TxPipeline()
	if previous != nil && previous.Token != session.Token {
		pipe.Del(ctx, lookupKey(previous.Token))
	}
	pipe.Set(ctx, sessionKey(session.StudentID), jsonData, ttl)
	// reverse lookup token -> student id for quick validation
	pipe.Set(ctx, lookupKey(session.Token), session.StudentID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// GetSession retrieves the session data by student ID
func (r *TokenRepository) GetSession(ctx context.Context, studentID string) (*domain.TokenSession, error) {
	val, err := r.client.Get(ctx, sessionKey(studentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: token", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var session domain.TokenSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &session, nil
}

// ValidateToken checks if a token exists and is valid
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	studentID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.New("token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return studentID, nil
}

func (r *TokenRepository) DeleteToken(ctx context.Context, studentID, token string) error {
	if err := r.client.Del(ctx, sessionKey(studentID), lookupKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete token from Redis: %w", err)
	}
	return nil
}
