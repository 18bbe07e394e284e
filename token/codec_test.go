package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func testCodec(t *testing.T, now *time.Time) *Codec {
	t.Helper()

	codec, err := NewCodec(Config{
		SigningKey: testKey,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "labelgrid",
		Now:        func() time.Time { return *now },
	})
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsShortKey(t *testing.T) {
	_, err := NewCodec(Config{SigningKey: []byte("too short")})
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	for _, kind := range []Kind{Access, Refresh} {
		tokenStr, err := codec.Issue("alice@example.com", kind)
		require.NoError(t, err)
		require.NotEmpty(t, tokenStr)

		identity, err := codec.Verify(tokenStr, kind)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", identity)
	}
}

func TestVerifyRejectsCrossType(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	access, err := codec.Issue("alice@example.com", Access)
	require.NoError(t, err)
	refresh, err := codec.Issue("alice@example.com", Refresh)
	require.NoError(t, err)

	_, err = codec.Verify(access, Refresh)
	require.ErrorIs(t, err, ErrInvalid)

	_, err = codec.Verify(refresh, Access)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	tokenStr, err := codec.Issue("alice@example.com", Access)
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Minute)

	_, err = codec.Verify(tokenStr, Access)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(tokenStr, Access)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	other, err := NewCodec(Config{
		SigningKey: []byte("ffffffffffffffffffffffffffffffff"),
		Issuer:     "labelgrid",
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)

	tokenStr, err := other.Issue("alice@example.com", Access)
	require.NoError(t, err)

	_, err = codec.Verify(tokenStr, Access)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	other, err := NewCodec(Config{
		SigningKey: testKey,
		Issuer:     "someone-else",
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)

	tokenStr, err := other.Issue("alice@example.com", Access)
	require.NoError(t, err)

	_, err = codec.Verify(tokenStr, Access)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestIssueRejectsEmptyIdentity(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	_, err := codec.Issue("", Access)
	require.Error(t, err)

	_, err = codec.Issue("alice@example.com", Kind("session"))
	require.Error(t, err)
}

func TestTTLPerKind(t *testing.T) {
	now := time.Now()
	codec := testCodec(t, &now)

	require.Equal(t, time.Hour, codec.TTL(Access))
	require.Equal(t, 24*time.Hour, codec.TTL(Refresh))
}
