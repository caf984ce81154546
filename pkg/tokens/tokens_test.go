package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")

	tests := []struct {
		name      string
		exp       time.Time
		parseWith []byte
		wantErr   error
	}{
		{name: "valid", exp: time.Now().Add(time.Minute), parseWith: secret},
		{name: "expired", exp: time.Now().Add(-time.Minute), parseWith: secret, wantErr: jwt.ErrTokenExpired},
		{name: "wrong secret", exp: time.Now().Add(time.Minute), parseWith: []byte("other"), wantErr: jwt.ErrTokenSignatureInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok, err := NewAccessToken(secret, "42", "admin", tt.exp)
			require.NoError(t, err)

			claims, err := AccessClaimsFromToken(tok, tt.parseWith)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "42", claims.Subject)
			assert.Equal(t, "admin", claims.Role)
		})
	}
}

func TestRefreshToken_CarriesJTI(t *testing.T) {
	t.Parallel()

	secret := []byte("refresh-secret")
	tok, err := NewRefreshToken(secret, "7", "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)

	_, err = AccessClaimsFromToken("garbage", secret)
	assert.Error(t, err)
}
