package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"savr-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() string {
	return base64.StdEncoding.EncodeToString([]byte("test-signing-key-0123456789abcdef"))
}

func newTestCodec(t *testing.T, ttl time.Duration) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret(), ttl)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsBadSecret(t *testing.T) {
	_, err := NewCodec("not base64!!!", time.Hour)
	assert.Error(t, err)

	_, err = NewCodec("", time.Hour)
	assert.Error(t, err)
}

func TestMintVerifyRoundtrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Mint(42, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	// Mint in the past, verify in the present.
	minted := time.Now().Add(-2 * time.Hour)
	codec.now = func() time.Time { return minted }
	token, err := codec.Mint(7, models.RoleUser)
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAcceptsUntilExpiry(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	minted := time.Now()
	codec.now = func() time.Time { return minted }
	token, err := codec.Mint(7, models.RoleUser)
	require.NoError(t, err)

	// Just inside the lifetime.
	codec.now = func() time.Time { return minted.Add(59 * time.Minute) }
	_, err = codec.Verify(token)
	assert.NoError(t, err)

	// Just past it.
	codec.now = func() time.Time { return minted.Add(61 * time.Minute) }
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	other, err := NewCodec(base64.StdEncoding.EncodeToString([]byte("a-completely-different-key-000000")), time.Hour)
	require.NoError(t, err)

	token, err := other.Mint(7, models.RoleUser)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := codec.Verify(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestVerifyRejectsTamperedClaims(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Mint(7, models.RoleUser)
	require.NoError(t, err)

	// Flip one character of the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = codec.Verify(string(tampered))
	assert.Error(t, err)
}
