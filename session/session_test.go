package session

import (
	"context"
	"testing"
	"time"

	"eventhub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

func testUser() models.User {
	return models.User{ID: uuid.New(), Username: "ana", IsAdmin: true}
}

func TestIssueAndRestore(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)
	user := testUser()

	token, issued, err := m.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	sess, err := m.Restore(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "ana", sess.Username)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, issued.TokenID, sess.TokenID)
}

func TestRestore_RejectsForeignSecret(t *testing.T) {
	other := NewManager("another-secret-another-secret-xx", time.Hour, nil)
	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	m := NewManager(testSecret, time.Hour, nil)
	_, err = m.Restore(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRestore_RejectsExpired(t *testing.T) {
	m := NewManager(testSecret, -time.Minute, nil)
	token, _, err := m.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Restore(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRestore_RejectsTokenWithoutExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.NewString()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	m := NewManager(testSecret, time.Hour, nil)
	_, err = m.Restore(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOut_RevokesToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour, NewMemoryRevoker())
	token, _, err := m.Issue(testUser())
	require.NoError(t, err)

	require.NoError(t, m.SignOut(context.Background(), token))
	_, err = m.Restore(context.Background(), token)
	assert.ErrorIs(t, err, ErrRevoked)

	// Signing out twice or with garbage is harmless
	assert.NoError(t, m.SignOut(context.Background(), token))
	assert.NoError(t, m.SignOut(context.Background(), "garbage"))
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "", TokenFromHeader("Basic abc"))
	assert.Equal(t, "", TokenFromHeader(""))
}

func TestMemoryRevoker_Expires(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()
	require.NoError(t, r.Revoke(ctx, "a", -time.Second))
	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}
