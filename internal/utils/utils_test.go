package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("1111", "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "1111", claims.CardID)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), claims.ExpiresAt.Time, 5*time.Second)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
	_, err = ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestJWTRejectsEmptyCard(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, ErrEmptyCard)
}

func TestCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()
	key := BalanceCacheKey("1111")

	var got int64
	found, err := GetCache(ctx, rdb, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, key, int64(70000), BalanceTTL))
	found, err = GetCache(ctx, rdb, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 70000, got)

	mr.FastForward(BalanceTTL + time.Second)
	found, _ = GetCache(ctx, rdb, key, &got)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, key, int64(1), BalanceTTL))
	require.NoError(t, DeleteCache(ctx, rdb, key, BalanceCacheKey("2222")))
	assert.False(t, mr.Exists(key))
}

func TestCacheDisabled(t *testing.T) {
	ctx := context.Background()
	var got int64
	found, err := GetCache(ctx, nil, "k", &got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Second))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
}
