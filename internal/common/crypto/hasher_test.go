package crypto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashIsSaltedAndVerifies(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "password123")
	assert.True(t, h.Verify("password123", first))
	assert.True(t, h.Verify("password123", second))
}

func TestBcryptHasher_VerifyMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	assert.False(t, h.Verify("password124", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_VerifyMalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("password123", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("password123", ""))
}

func TestBcryptHasher_HashTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).Cost())
}

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	a, err := g.NewID()
	require.NoError(t, err)
	b, err := g.NewID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	_, err = uuid.Parse(a)
	assert.NoError(t, err)
}
