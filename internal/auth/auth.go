// Package auth issues and validates the bearer tokens that carry a caller's
// role. Identities are managed outside this service.
package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT token claims
type Claims struct {
	Name string      `json:"name"`
	Role errors.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenValidator is what the HTTP layer needs to authenticate a request.
type TokenValidator interface {
	Validate(token string) (*errors.Actor, error)
}

type JWTTokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenIssuer(secret, issuer string, ttl time.Duration) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an HS256 access token for subject.
func (j *JWTTokenIssuer) Issue(subject, name string, role errors.Role) (string, time.Time, error) {
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.ttl)

	claims := &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate checks signature, issuer and expiry and returns the caller.
func (j *JWTTokenIssuer) Validate(tokenString string) (*errors.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired.WithCause(err)
		}
		return nil, errors.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, errors.ErrInvalidToken
	}
	return &errors.Actor{
		Subject: claims.Subject,
		Name:    claims.Name,
		Role:    claims.Role,
	}, nil
}
