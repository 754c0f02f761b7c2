package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("Harbour Marine Ltd", "accounts@harbourmarine.co.nz", "+64 9 555 0101", "12 Wharf Rd, Auckland")
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := newTestClient(t)
		assert.False(t, c.Archived)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewClient("  ", "", "", "")
		assert.Error(t, err)
	})
}

func TestClient_Contacts(t *testing.T) {
	c := newTestClient(t)

	first, err := c.AddContact("Dana Wells", "dana@harbourmarine.co.nz", "")
	require.NoError(t, err)
	second, err := c.AddContact("Mike Tuala", "", "+64 21 555 222")
	require.NoError(t, err)

	t.Run("first contact is primary", func(t *testing.T) {
		assert.True(t, first.Primary)
		assert.False(t, second.Primary)
	})

	t.Run("primary can move", func(t *testing.T) {
		require.NoError(t, c.SetPrimaryContact(second.ID))
		assert.False(t, c.Contacts[0].Primary)
		assert.True(t, c.Contacts[1].Primary)
	})

	t.Run("unknown contact rejected", func(t *testing.T) {
		assert.Error(t, c.SetPrimaryContact(uuid.New()))
		assert.Error(t, c.RemoveContact(uuid.New()))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, c.RemoveContact(first.ID))
		assert.Len(t, c.Contacts, 1)
	})
}

func TestClient_ArchiveRestore(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.Archive())
	assert.True(t, c.Archived)
	assert.Error(t, c.Archive())
	assert.Error(t, c.Update("New Name", "", "", ""))

	require.NoError(t, c.Unarchive())
	assert.False(t, c.Archived)
	assert.NoError(t, c.Update("Harbour Marine (2021) Ltd", "", "", ""))
}

func TestClient_MergeInto(t *testing.T) {
	t.Run("merge archives the duplicate", func(t *testing.T) {
		dup := newTestClient(t)
		survivor := uuid.New()

		require.NoError(t, dup.MergeInto(survivor))
		assert.True(t, dup.Archived)
		require.NotNil(t, dup.MergedInto)
		assert.Equal(t, survivor, *dup.MergedInto)

		// merged clients stay archived
		assert.Error(t, dup.Unarchive())
		// and cannot be merged twice
		assert.Error(t, dup.MergeInto(uuid.New()))
	})

	t.Run("cannot merge into itself", func(t *testing.T) {
		c := newTestClient(t)
		assert.Error(t, c.MergeInto(c.GetID()))
	})
}
