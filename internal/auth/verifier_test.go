package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T) (jwk.Key, jwk.Set) {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	private, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, private.Set(jwk.AlgorithmKey, jwa.RS256()))

	public, err := jwk.PublicKeyOf(private)
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(public))

	return private, set
}

func sign(t *testing.T, key jwk.Key, build func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()

	tok, err := build(jwt.NewBuilder()).Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), key))
	require.NoError(t, err)

	return string(signed)
}

func TestVerifyAcceptsSignedToken(t *testing.T) {
	key, set := testKeys(t)
	v := NewStaticVerifier(set)

	raw := sign(t, key, func(b *jwt.Builder) *jwt.Builder {
		return b.Subject("user-1").Claim("email", "writer@example.com").Expiration(time.Now().Add(time.Hour))
	})

	claims, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "writer@example.com", claims.Email)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	key, set := testKeys(t)
	v := NewStaticVerifier(set)

	raw := sign(t, key, func(b *jwt.Builder) *jwt.Builder {
		return b.Subject("user-1").Expiration(time.Now().Add(-time.Hour))
	})

	_, err := v.Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	_, set := testKeys(t)
	otherKey, _ := testKeys(t)
	v := NewStaticVerifier(set)

	raw := sign(t, otherKey, func(b *jwt.Builder) *jwt.Builder {
		return b.Subject("user-1").Expiration(time.Now().Add(time.Hour))
	})

	_, err := v.Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyRequiresSubject(t *testing.T) {
	key, set := testKeys(t)
	v := NewStaticVerifier(set)

	raw := sign(t, key, func(b *jwt.Builder) *jwt.Builder {
		return b.Expiration(time.Now().Add(time.Hour))
	})

	_, err := v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrNoSubject)
}
