package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrMissingClaim          = errors.New("missing required claim")
	ErrUnsupportedAlgorithm  = errors.New("unsupported signing algorithm")
	ErrMissingAuthentication = errors.New("missing bearer token")
)

// UserClaims is the token payload issued by the user service. id, email and
// exp are required; the rest is informational.
type UserClaims struct {
	UserID    int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims checks inside ParseWithClaims.
func (c UserClaims) Validate() error {
	switch {
	case c.UserID <= 0:
		return fmt.Errorf("%w: id", ErrMissingClaim)
	case strings.TrimSpace(c.Email) == "":
		return fmt.Errorf("%w: email", ErrMissingClaim)
	}
	return nil
}

type Verifier struct {
	secret []byte
	method jwt.SigningMethod
}

// NewVerifier accepts only HMAC algorithms (HS256, HS384, HS512).
func NewVerifier(secret, algorithm string) (*Verifier, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Verifier{secret: []byte(secret), method: method}, nil
}

func (v *Verifier) Parse(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Sign issues a token with the verifier's key. Used by tests and local tooling.
func (v *Verifier) Sign(claims UserClaims) (string, error) {
	return jwt.NewWithClaims(v.method, claims).SignedString(v.secret)
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" value.
func FromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingAuthentication
	}
	return strings.TrimSpace(token), nil
}

type claimsKey struct{}

func WithClaims(ctx context.Context, c *UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func FromContext(ctx context.Context) (*UserClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*UserClaims)
	return c, ok && c != nil
}
