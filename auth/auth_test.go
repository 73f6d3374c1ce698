package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/store"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := NewService(store.NewMemoryStore(), "secret", 0)

	u, err := s.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", u.PasswordHash)

	_, err = s.Register(ctx, "Alice again", "alice@example.com", "pw2")
	assert.True(t, errors.Is(err, ErrUserExists))

	token, err := s.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.Id, claims.Id)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestRegisterMissingFields(t *testing.T) {
	s := NewService(store.NewMemoryStore(), "secret", 0)
	_, err := s.Register(context.Background(), "no email", "", "pw")
	assert.True(t, errors.Is(err, ErrMissingFields))
	_, err = s.Register(context.Background(), "no password", "a@b.c", "")
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewService(store.NewMemoryStore(), "secret", 0)
	_, err := s.Register(ctx, "Bob", "bob@example.com", "right")
	require.NoError(t, err)

	_, err = s.Login(ctx, "bob@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = s.Login(ctx, "ghost@example.com", "right")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = s.Login(ctx, "", "")
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestVerifyTokenRejects(t *testing.T) {
	s := NewService(store.NewMemoryStore(), "secret", time.Hour)
	u := &model.User{Id: "u1", Email: "u1@example.com"}

	t.Run("garbage", func(t *testing.T) {
		_, err := s.VerifyToken("not-a-token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(store.NewMemoryStore(), "other-secret", time.Hour)
		token, err := other.IssueToken(u)
		require.NoError(t, err)
		_, err = s.VerifyToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewService(store.NewMemoryStore(), "secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.IssueToken(u)
		require.NoError(t, err)
		_, err = s.VerifyToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Id: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.VerifyToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}
