package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	valid, err := svc.GenerateToken(7)
	assert.NoError(t, err)

	expired := signToken(t, "test-secret", &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: valid},
		{name: "empty token", token: "", wantErr: true},
		{name: "malformed token", token: "not.a.jwt", wantErr: true},
		{name: "tampered token", token: valid + "x", wantErr: true},
		{name: "wrong secret", token: signWith(t, "other-secret", 7), wantErr: true},
		{name: "expired token", token: expired, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
			}
		})
	}
}

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func signWith(t *testing.T, secret string, userID uint) string {
	t.Helper()
	other := NewJWTService(secret)
	token, err := other.GenerateToken(userID)
	assert.NoError(t, err)
	return token
}
