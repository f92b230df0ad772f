package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.Issue(Principal{AccountID: "u1", ProjectKey: "petshop"}, time.Hour)
	require.NoError(t, err)

	p, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.AccountID)
	assert.Equal(t, "petshop", p.ProjectKey)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("secret")

	expired, err := v.Issue(Principal{AccountID: "u1", ProjectKey: "petshop"}, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewVerifier("other").Issue(Principal{AccountID: "u1", ProjectKey: "petshop"}, time.Hour)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"project": "petshop",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "u1",
		"project": "petshop",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not-a-jwt",
		"expired": expired,
		"foreign": foreign,
		"no sub":  noSub,
		"no exp":  noExp,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}
