package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "portal-test", TTL: time.Minute}

	tok, err := j.Issue("u1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "portal-test", TTL: time.Minute}
	tok, err := j.Issue("u1", "admin")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other-secret"), Issuer: "portal-test", TTL: time.Minute}
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "portal-test", TTL: time.Minute}
	tok, err := j.Issue("u1", "admin")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Minute}
	_, err = other.Parse(tok)
	assert.Error(t, err)
}
