package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ademaro/linka/pkg/constant"
)

// Token status constants
const (
	TokenStatusNormal = 1 // Token is valid
	TokenStatusKicked = 2 // Token was kicked by new login
	TokenStatusLogout = 3 // Token was logged out
)

// TokenStore manages token state in Redis. A single session per user is
// the policy: a fresh login kicks every other normal token.
type TokenStore struct {
	rdb          *redis.Client
	accessExpire time.Duration
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(rdb *redis.Client, expireHours int) *TokenStore {
	return &TokenStore{
		rdb:          rdb,
		accessExpire: time.Duration(expireHours) * time.Hour,
	}
}

// tokenKey generates the Redis key for a user's tokens
func (s *TokenStore) tokenKey(userId int64) string {
	return fmt.Sprintf(constant.RedisKeyToken(), userId)
}

// StoreToken stores a token in Redis with normal status
func (s *TokenStore) StoreToken(ctx context.Context, userId int64, token string) error {
	key := s.tokenKey(userId)

	// Hash field: token, value: status
	if err := s.rdb.HSet(ctx, key, token, TokenStatusNormal).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := s.rdb.Expire(ctx, key, s.accessExpire).Err(); err != nil {
		return fmt.Errorf("failed to set token expiration: %w", err)
	}

	return nil
}

// TokenStatus returns the stored status for a token (0 if not found)
func (s *TokenStore) TokenStatus(ctx context.Context, userId int64, token string) (int, error) {
	statusStr, err := s.rdb.HGet(ctx, s.tokenKey(userId), token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get token status: %w", err)
	}

	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return 0, fmt.Errorf("invalid token status value: %w", err)
	}

	return status, nil
}

// IsTokenValid checks if a token exists and has normal status
func (s *TokenStore) IsTokenValid(ctx context.Context, userId int64, token string) (bool, error) {
	status, err := s.TokenStatus(ctx, userId, token)
	if err != nil {
		return false, err
	}
	return status == TokenStatusNormal, nil
}

// InvalidateToken marks a token as logged out
func (s *TokenStore) InvalidateToken(ctx context.Context, userId int64, token string) error {
	key := s.tokenKey(userId)

	exists, err := s.rdb.HExists(ctx, key, token).Result()
	if err != nil {
		return fmt.Errorf("failed to check token existence: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.rdb.HSet(ctx, key, token, TokenStatusLogout).Err(); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}

	return nil
}

// KickOtherTokens marks every other normal token for this user as kicked.
// Returns the list of kicked tokens.
func (s *TokenStore) KickOtherTokens(ctx context.Context, userId int64, currentToken string) ([]string, error) {
	key := s.tokenKey(userId)

	tokens, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	var kickedTokens []string
	for token, statusStr := range tokens {
		if token == currentToken {
			continue
		}

		status, _ := strconv.Atoi(statusStr)
		if status == TokenStatusNormal {
			if err := s.rdb.HSet(ctx, key, token, TokenStatusKicked).Err(); err != nil {
				return nil, fmt.Errorf("failed to kick token: %w", err)
			}
			kickedTokens = append(kickedTokens, token)
		}
	}

	return kickedTokens, nil
}

// ForceLogoutUser removes all token state for a user
func (s *TokenStore) ForceLogoutUser(ctx context.Context, userId int64) error {
	if err := s.rdb.Del(ctx, s.tokenKey(userId)).Err(); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
