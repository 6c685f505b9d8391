package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClaims() UserClaims {
	return UserClaims{
		UserID: 7,
		Email:  "buyer@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	v, err := NewVerifier("secret", "HS256")
	require.NoError(t, err)

	token, err := v.Sign(validClaims())
	require.NoError(t, err)

	claims, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifier_RejectsBadTokens(t *testing.T) {
	v, err := NewVerifier("secret", "HS256")
	require.NoError(t, err)
	other, err := NewVerifier("other-secret", "HS256")
	require.NoError(t, err)
	hs512, err := NewVerifier("secret", "HS512")
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	noID := validClaims()
	noID.UserID = 0

	noEmail := validClaims()
	noEmail.Email = " "

	tests := []struct {
		name   string
		signer *Verifier
		claims UserClaims
	}{
		{"wrong key", other, validClaims()},
		{"wrong algorithm", hs512, validClaims()},
		{"expired", v, expired},
		{"no expiry", v, noExpiry},
		{"missing id", v, noID},
		{"missing email", v, noEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.signer.Sign(tt.claims)
			require.NoError(t, err)

			_, err = v.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = v.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserClaims_Validate(t *testing.T) {
	c := validClaims()
	assert.NoError(t, c.Validate())

	c.UserID = -1
	assert.ErrorIs(t, c.Validate(), ErrMissingClaim)
}

func TestNewVerifier_OnlyHMAC(t *testing.T) {
	_, err := NewVerifier("secret", "RS256")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = NewVerifier("secret", "none")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = NewVerifier("", "HS256")
	assert.Error(t, err)
}

func TestFromHeader(t *testing.T) {
	token, err := FromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = FromHeader("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc"} {
		_, err := FromHeader(h)
		assert.ErrorIs(t, err, ErrMissingAuthentication, h)
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	c := validClaims()
	got, ok := FromContext(WithClaims(context.Background(), &c))
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)
}
