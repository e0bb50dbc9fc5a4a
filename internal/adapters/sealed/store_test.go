package sealed

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/imgshare/gallery-client/internal/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = seed + byte(i)
	}
	return key
}

func newTestCipher(t *testing.T, seed byte) *Cipher {
	t.Helper()
	c, err := NewCipher(testKey(seed))
	require.NoError(t, err)
	return c
}

func TestCipher_SealOpen(t *testing.T) {
	c := newTestCipher(t, 0)

	sealed, err := c.Seal("imgshare:session", []byte(`{"userId":"u1"}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "u1")

	pt, err := c.Open("imgshare:session", sealed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"u1"}`, string(pt))

	// Bound to the record key.
	_, err = c.Open("imgshare:cookies", sealed)
	require.Error(t, err)
}

func TestCipher_InvalidInput(t *testing.T) {
	_, err := NewCipher([]byte("short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")

	c := newTestCipher(t, 0)
	_, err = c.Open("k", "v2:somedata")
	require.ErrorIs(t, err, ErrUnknownVersion)

	_, err = c.Open("k", "v1:!!!invalid!!!")
	require.Error(t, err)

	_, err = c.Open("k", "v1:"+base64.StdEncoding.EncodeToString([]byte("x")))
	require.Error(t, err)
}

func TestParseKey(t *testing.T) {
	raw := strings.Repeat("k", KeySize)
	key, err := ParseKey(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte(raw), key)

	encoded := base64.StdEncoding.EncodeToString(testKey(7))
	key, err = ParseKey(" " + encoded + " ")
	require.NoError(t, err)
	assert.Equal(t, testKey(7), key)

	_, err = ParseKey("too-short")
	require.Error(t, err)
}

func TestStore_RoundTripStoresCiphertext(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	s := NewStore(Options{Inner: inner, Cipher: newTestCipher(t, 0)})

	require.NoError(t, s.Set(ctx, "imgshare:session", `{"userId":"u1"}`))

	raw, found, err := inner.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, IsSealed(raw))

	v, found, err := s.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"userId":"u1"}`, v)

	require.NoError(t, s.Delete(ctx, "imgshare:session"))
	_, found, err = s.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_ReadsUnsealedRecords(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStoreWith(map[string]string{"imgshare:session": `{"userId":"u1"}`})
	s := NewStore(Options{Inner: inner, Cipher: newTestCipher(t, 0)})

	v, found, err := s.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"userId":"u1"}`, v)
}

func TestStore_WrongKeyReadsAsMissing(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	require.NoError(t, NewStore(Options{Inner: inner, Cipher: newTestCipher(t, 0)}).Set(ctx, "k", "secret"))

	rotated := NewStore(Options{Inner: inner, Cipher: newTestCipher(t, 100)})
	v, found, err := rotated.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestNewStore_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewStore(Options{Cipher: &Cipher{}}) })
	assert.Panics(t, func() { NewStore(Options{Inner: memory.NewStore()}) })
}
