package workforce

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStaff(t *testing.T) *Staff {
	t.Helper()
	s, err := NewStaff("tane.harris@fabworks.co.nz", "Tane Harris", "workshop-pass-1",
		decimal.NewFromInt(32), decimal.NewFromInt(90))
	require.NoError(t, err)
	return s
}

func TestNewStaff(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := newTestStaff(t)
		assert.True(t, s.Active)
		assert.False(t, s.Admin)
		assert.NotEqual(t, "workshop-pass-1", s.PasswordHash)
	})

	t.Run("normalizes email", func(t *testing.T) {
		s, err := NewStaff("  Dana.W@Fabworks.CO.NZ ", "Dana W", "password123",
			decimal.NewFromInt(30), decimal.NewFromInt(85))
		require.NoError(t, err)
		assert.Equal(t, "dana.w@fabworks.co.nz", s.Email)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewStaff("x@fabworks.co.nz", "X", "short", decimal.NewFromInt(30), decimal.NewFromInt(85))
		assert.Error(t, err)
	})

	t.Run("rejects negative rates", func(t *testing.T) {
		_, err := NewStaff("x@fabworks.co.nz", "X", "password123", decimal.NewFromInt(-1), decimal.NewFromInt(85))
		assert.Error(t, err)
	})
}

func TestStaff_VerifyPassword(t *testing.T) {
	s := newTestStaff(t)

	assert.True(t, s.VerifyPassword("workshop-pass-1"))
	assert.False(t, s.VerifyPassword("wrong"))

	require.NoError(t, s.ChangePassword("new-workshop-pass"))
	assert.False(t, s.VerifyPassword("workshop-pass-1"))
	assert.True(t, s.VerifyPassword("new-workshop-pass"))
}

func TestStaff_ActivateDeactivate(t *testing.T) {
	s := newTestStaff(t)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.Active)
	assert.Error(t, s.Deactivate())

	require.NoError(t, s.Activate())
	assert.True(t, s.Active)
	assert.Error(t, s.Activate())
}
