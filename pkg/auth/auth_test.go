package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	gen, err := NewJWTGenerator("secret", "kindra-backend", []string{DefaultAudience}, time.Hour)
	require.NoError(t, err)
	token, err := gen.GenerateToken("user-1", "u@example.com", nil)
	require.NoError(t, err)

	v, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "kindra-backend", Audience: []string{DefaultAudience}})
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestJWT_Rejections(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "kindra-backend", Audience: []string{DefaultAudience}})
	require.NoError(t, err)

	_, err = v.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	expired, _ := NewJWTGenerator("secret", "kindra-backend", []string{DefaultAudience}, -time.Minute)
	token, err := expired.GenerateToken("user-1", "", nil)
	require.NoError(t, err)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	wrongKey, _ := NewJWTGenerator("other", "kindra-backend", []string{DefaultAudience}, time.Hour)
	token, _ = wrongKey.GenerateToken("user-1", "", nil)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongAudience, _ := NewJWTGenerator("secret", "kindra-backend", []string{"someone-else"}, time.Hour)
	token, _ = wrongAudience.GenerateToken("user-1", "", nil)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.Error(t, err)

	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "user-1"})
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
}

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "user-1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "user-2")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "user-1")
	assert.True(t, ok, "window slides")

	require.NoError(t, l.Reset(ctx, "user-1"))
	ok, _ = l.Allow(ctx, "user-1")
	assert.True(t, ok)
}

func TestSlidingWindowLimiter_ZeroLimitAllowsAll(t *testing.T) {
	l := NewSlidingWindowLimiter(0, time.Minute)
	for i := 0; i < 5; i++ {
		ok, _ := l.Allow(context.Background(), "k")
		assert.True(t, ok)
	}
}

type fakeCounterStore struct {
	count     int
	updateErr error
	lastKey   string
}

func (f *fakeCounterStore) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.lastKey = in.Key["PK"].(*types.AttributeValueMemberS).Value
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.count++
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"Count": &types.AttributeValueMemberN{Value: strconv.Itoa(f.count)},
	}}, nil
}

func (f *fakeCounterStore) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.count = 0
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDistributedRateLimiter(t *testing.T) {
	ctx := context.Background()
	store := &fakeCounterStore{}
	l := NewDistributedRateLimiter(store, "kindra", 5, time.Minute, "ADVICE")
	l.now = func() time.Time { return time.Unix(1_700_000_030, 0) }

	ok, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "RATELIMIT#ADVICE#user-1#1699999980", store.lastKey)

	store.updateErr = &types.ConditionalCheckFailedException{}
	ok, err = l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	store.updateErr = errors.New("throttled")
	ok, err = l.Allow(ctx, "user-1")
	assert.Error(t, err)
	assert.True(t, ok, "store failures fail open")
}
