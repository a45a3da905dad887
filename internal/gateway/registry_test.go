package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareClient(userId int64) *Client {
	return NewClient(newFakeConn(), userId, "user", "", "conn", nil)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	t.Run("first registration has no previous", func(t *testing.T) {
		c := newBareClient(1)
		assert.Nil(t, r.Register(c))
		assert.Same(t, c, r.Lookup(1))
	})

	t.Run("second registration displaces the first", func(t *testing.T) {
		old := r.Lookup(1)
		require.NotNil(t, old)

		newer := newBareClient(1)
		prev := r.Register(newer)
		assert.Same(t, old, prev)
		assert.Same(t, newer, r.Lookup(1))
		assert.Equal(t, 1, r.Count())
	})
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()

	t.Run("removes the registered client", func(t *testing.T) {
		c := newBareClient(7)
		r.Register(c)

		assert.True(t, r.Unregister(c))
		assert.Nil(t, r.Lookup(7))
	})

	t.Run("stale handle does not remove successor", func(t *testing.T) {
		old := newBareClient(7)
		r.Register(old)
		newer := newBareClient(7)
		r.Register(newer)

		// The displaced connection closing must leave the new one alone
		assert.False(t, r.Unregister(old))
		assert.Same(t, newer, r.Lookup(7))

		assert.True(t, r.Unregister(newer))
		assert.Nil(t, r.Lookup(7))
	})

	t.Run("unknown client is a no-op", func(t *testing.T) {
		assert.False(t, r.Unregister(newBareClient(99)))
	})
}

func TestRegistry_OnlineIds(t *testing.T) {
	r := NewRegistry()
	r.Register(newBareClient(1))
	r.Register(newBareClient(2))
	r.Register(newBareClient(3))

	ids := r.OnlineIds()
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
	assert.Len(t, r.Snapshot(), 3)
}
