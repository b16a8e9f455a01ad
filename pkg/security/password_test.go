package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompareRoundtrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse"))
	assert.Error(t, hasher.Compare(hash, "battery-staple"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("seven77")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestOutOfRangeCostFallsBackToDefault(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MaxCost + 1)

	hash, err := hasher.Hash("long-enough")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
