package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A01753312/correojoseph/internal/table"
)

func TestStore(t *testing.T) {
	t.Run("creates sessions with unique ids", func(t *testing.T) {
		store := NewStore()
		first := store.New()
		second := store.New()

		assert.NotEqual(t, first.ID, second.ID)

		got, ok := store.Get(first.ID)
		require.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		store := NewStore()
		_, ok := store.Get("nope")
		assert.False(t, ok)
	})

	t.Run("remove discards the session", func(t *testing.T) {
		store := NewStore()
		s := store.New()
		store.Remove(s.ID)

		_, ok := store.Get(s.ID)
		assert.False(t, ok)
	})
}

func TestSessionBatches(t *testing.T) {
	newBatch := func(id, mode string) *Batch {
		return &Batch{
			ID:        id,
			Mode:      mode,
			Rows:      []table.ContactRow{{Fields: map[string]string{"Nombre": "Ana"}}},
			CreatedAt: time.Now(),
		}
	}

	t.Run("stores and retrieves batches", func(t *testing.T) {
		s := NewStore().New()
		s.PutBatch(newBatch("b-1", "mail_names"))

		batch, ok := s.Batch("b-1")
		require.True(t, ok)
		assert.Equal(t, "mail_names", batch.Mode)
	})

	t.Run("re-upload replaces the previous batch of the same mode", func(t *testing.T) {
		s := NewStore().New()
		s.PutBatch(newBatch("b-1", "chat"))
		s.PutBatch(newBatch("b-2", "chat"))

		_, ok := s.Batch("b-1")
		assert.False(t, ok, "old batch is discarded")
		_, ok = s.Batch("b-2")
		assert.True(t, ok)
	})

	t.Run("batches of different modes coexist", func(t *testing.T) {
		s := NewStore().New()
		s.PutBatch(newBatch("b-1", "chat"))
		s.PutBatch(newBatch("b-2", "mail_names"))

		_, ok := s.Batch("b-1")
		assert.True(t, ok)
		_, ok = s.Batch("b-2")
		assert.True(t, ok)
	})

	t.Run("drop batches clears the cache", func(t *testing.T) {
		s := NewStore().New()
		s.PutBatch(newBatch("b-1", "chat"))
		s.DropBatches()

		_, ok := s.Batch("b-1")
		assert.False(t, ok)
	})
}
