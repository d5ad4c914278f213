package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	PostingListPrefix    = "postings:%d"
	TokenBlacklistPrefix = "blacklist:%s"
)

const (
	UserTTL        = 5 * time.Minute
	PostingListTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostingListKey(userID uint) string {
	return fmt.Sprintf(PostingListPrefix, userID)
}

func TokenBlacklistKey(jti string) string {
	return fmt.Sprintf(TokenBlacklistPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostingList(ctx context.Context, userID uint) {
	Invalidate(ctx, PostingListKey(userID))
}

// BlacklistToken marks a token id revoked until its natural expiry.
// A nil client makes this a no-op; revocation then relies on token expiry.
func BlacklistToken(ctx context.Context, jti string, until time.Duration) {
	if client != nil && until > 0 {
		client.Set(ctx, TokenBlacklistKey(jti), "1", until)
	}
}

// IsTokenBlacklisted reports whether the token id has been revoked.
func IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, TokenBlacklistKey(jti)).Result()
	return err == nil && n > 0
}
