package ticket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newOpenTicket(channelID, ownerID string) *Ticket {
	return &Ticket{
		ChannelID: channelID,
		GuildID:   "guild-1",
		OwnerID:   ownerID,
		OwnerName: "owner",
		Category:  CategoryGeneral,
		State:     StateOpen,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRegistry_InsertQuota(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < MaxOpenPerOwner; i++ {
		require.NoError(t, r.Insert(newOpenTicket(fmt.Sprintf("chan-%d", i), "user-1")))
	}
	require.Equal(t, MaxOpenPerOwner, r.CountOpen("user-1"))

	// The cap applies per owner, not globally.
	require.NoError(t, r.Insert(newOpenTicket("chan-other", "user-2")))

	err := r.Insert(newOpenTicket("chan-4", "user-1"))
	require.ErrorIs(t, err, ErrQuotaExceeded)
	require.Equal(t, MaxOpenPerOwner, r.CountOpen("user-1"))
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Insert(newOpenTicket("chan-1", "user-1")))
	require.ErrorIs(t, r.Insert(newOpenTicket("chan-1", "user-2")), ErrDuplicateTicket)
}

func TestRegistry_GetRemove(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("chan-1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Insert(newOpenTicket("chan-1", "user-1")))

	got, err := r.Get("chan-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", got.OwnerID)
	require.Equal(t, StateOpen, got.State)

	require.True(t, r.Remove("chan-1"))
	require.False(t, r.Remove("chan-1"), "Remove must be idempotent")
	require.Equal(t, 0, r.CountOpen("user-1"))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("user-%d", i%5)
			_ = r.Insert(newOpenTicket(fmt.Sprintf("chan-%d", i), owner))
			_ = r.CountOpen(owner)
			_, _ = r.Get(fmt.Sprintf("chan-%d", i))
		}(i)
	}
	wg.Wait()

	// The cap holds for every owner once the registry is quiescent.
	for i := 0; i < 5; i++ {
		require.LessOrEqual(t, r.CountOpen(fmt.Sprintf("user-%d", i)), MaxOpenPerOwner)
	}
}
