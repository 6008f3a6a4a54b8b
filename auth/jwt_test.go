package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/errs"
)

func TestTokenManagerPair(t *testing.T) {
	tm := NewTokenManager("test-secret")

	pair, err := tm.NewPair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := tm.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 42, access.UserID)
	assert.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := tm.Parse(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 42, refresh.UserID)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
}

func TestTokenManagerParse_WrongSecret(t *testing.T) {
	pair, err := NewTokenManager("secret-one").NewPair(42)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two").Parse(pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManagerParse_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	_, err := tm.Parse("not.a.token")
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManagerRefresh(t *testing.T) {
	tm := NewTokenManager("test-secret")

	pair, err := tm.NewPair(42)
	require.NoError(t, err)

	fresh, err := tm.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := tm.Parse(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
}

func TestTokenManagerRefresh_RejectsAccessToken(t *testing.T) {
	tm := NewTokenManager("test-secret")

	pair, err := tm.NewPair(42)
	require.NoError(t, err)

	_, err = tm.Refresh(pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
	assert.Equal(t, "Token is not a refresh token.", errs.ErrorMessage(err))
}

func TestHMACHashDeterministic(t *testing.T) {
	h := NewHMAC("key")
	assert.Equal(t, h.Hash("token"), h.Hash("token"))
	assert.NotEqual(t, h.Hash("token"), h.Hash("other"))
	assert.NotEqual(t, h.Hash("token"), NewHMAC("other-key").Hash("token"))
}

func TestMakeRememberToken(t *testing.T) {
	token, err := MakeRememberToken()
	require.NoError(t, err)

	n, err := NBytes(token)
	require.NoError(t, err)
	assert.Equal(t, RememberTokenBytes, n)

	other, err := MakeRememberToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
