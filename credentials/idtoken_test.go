package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func signedTestJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestNewIDTokenSourceRequiresAudience(t *testing.T) {
	_, err := NewIDTokenSource(context.Background(), authorizedUserJSON, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audience")
}

func TestAccessToken(t *testing.T) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-access-token"})

	got, err := AccessToken(ts)
	require.NoError(t, err)
	assert.Equal(t, "test-access-token", got)
}

func TestAccessTokenRejectsIDTokenSource(t *testing.T) {
	src := &IDTokenSource{
		ts:       oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "an-id-token"}),
		audience: "https://example.com",
	}

	_, err := AccessToken(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID tokens")
}

func TestIDTokenFromIDTokenSource(t *testing.T) {
	src := &IDTokenSource{
		ts:       oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "an-id-token"}),
		audience: "https://example.com",
	}
	assert.Equal(t, "https://example.com", src.Audience())

	got, err := IDToken(src)
	require.NoError(t, err)
	assert.Equal(t, "an-id-token", got)
}

func TestIDTokenFromUserToken(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "test-access-token"}).
		WithExtra(map[string]interface{}{"id_token": "an-id-token"})

	got, err := IDToken(oauth2.StaticTokenSource(tok))
	require.NoError(t, err)
	assert.Equal(t, "an-id-token", got)
}

func TestIDTokenMissing(t *testing.T) {
	_, err := IDToken(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-access-token"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NewIDTokenSource")
}

func TestParseIDTokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	raw := signedTestJWT(t, jwt.MapClaims{
		"aud": "https://example.com",
		"iss": "https://accounts.google.com",
		"exp": exp,
	})

	claims, err := ParseIDTokenClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", claims["aud"])
	assert.Equal(t, "https://accounts.google.com", claims["iss"])
	assert.EqualValues(t, exp, claims["exp"])
}

func TestParseIDTokenClaimsMalformed(t *testing.T) {
	_, err := ParseIDTokenClaims("not-a-jwt")
	assert.Error(t, err)
}
