// Package auth verifies staff access tokens issued by Supabase Auth.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var ErrNoSubject = errors.New("token has no subject")

// Claims are the parts of a verified token the API relies on.
type Claims struct {
	Subject string
	Email   string
}

type keySource func(ctx context.Context) (jwk.Set, error)

type Verifier struct {
	keys keySource
}

// NewJWKSVerifier registers jwksURL with a refreshing key cache and verifies
// tokens against whatever keys it currently holds.
func NewJWKSVerifier(ctx context.Context, jwksURL string) (*Verifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	if err := cache.Register(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("failed to register jwks url with cache: %w", err)
	}

	return &Verifier{
		keys: func(ctx context.Context) (jwk.Set, error) {
			return cache.Lookup(ctx, jwksURL)
		},
	}, nil
}

func NewStaticVerifier(set jwk.Set) *Verifier {
	return &Verifier{
		keys: func(context.Context) (jwk.Set, error) {
			return set, nil
		},
	}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	set, err := v.keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("parse jwt: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, ErrNoSubject
	}

	claims := &Claims{Subject: subject}

	// email is optional
	_ = token.Get("email", &claims.Email)

	return claims, nil
}
