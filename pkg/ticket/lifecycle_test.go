package ticket

import (
	"testing"
	"time"

	"github.com/conciergebot/concierge/pkg/messages"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_RequestClose(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)
	lc.closeDelay = 10 * time.Millisecond

	tk := newOpenTicket("chan-1", "U1")
	require.NoError(t, registry.Insert(tk))

	closed, err := lc.RequestClose("chan-1", "ticket-u1-1700000000000")
	require.NoError(t, err)
	require.Equal(t, StateClosing, closed.State)

	// The registry entry is gone before the physical deletion completes.
	_, err = lc.Describe("chan-1")
	require.ErrorIs(t, err, ErrNotFound)

	// The closing notice went out immediately.
	sent := platform.sentMessages("chan-1")
	require.Len(t, sent, 1)
	require.Equal(t, messages.TicketClosing, sent[0].Content)

	// The delayed deletion fires on its own.
	require.Eventually(t, func() bool {
		deleted := platform.deletedChannels()
		return len(deleted) == 1 && deleted[0] == "chan-1"
	}, time.Second, 5*time.Millisecond)
}

func TestLifecycle_RequestCloseNotATicketChannel(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)

	require.NoError(t, registry.Insert(newOpenTicket("chan-1", "U1")))

	_, err := lc.RequestClose("chan-1", "general")
	require.ErrorIs(t, err, ErrNotATicketChannel)

	// Registry untouched, nothing sent, nothing deleted.
	require.Equal(t, 1, registry.Len())
	require.Empty(t, platform.sentMessages("chan-1"))
	require.Empty(t, platform.deletedChannels())
}

func TestLifecycle_RequestCloseUnknownTicket(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)
	lc.closeDelay = 10 * time.Millisecond

	// A channel that follows the naming convention but has no registry
	// entry is still deleted; the visible channel set is authoritative.
	closed, err := lc.RequestClose("chan-9", "ticket-ghost-1700000000000")
	require.NoError(t, err)
	require.Nil(t, closed)

	require.Eventually(t, func() bool {
		return len(platform.deletedChannels()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestLifecycle_DeletionFailureIsSwallowed(t *testing.T) {
	platform := newFakePlatform()
	platform.deleteChannelErr = errFakePlatform

	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)
	lc.closeDelay = time.Millisecond

	require.NoError(t, registry.Insert(newOpenTicket("chan-1", "U1")))

	_, err := lc.RequestClose("chan-1", "ticket-u1-1700000000000")
	require.NoError(t, err)

	// The registry entry is gone regardless of the deletion outcome.
	time.Sleep(20 * time.Millisecond)
	_, err = lc.Describe("chan-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycle_OnExternalRemoval(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)

	require.NoError(t, registry.Insert(newOpenTicket("chan-1", "U1")))

	lc.OnExternalRemoval("chan-1")
	require.Equal(t, 0, registry.CountOpen("U1"))

	// Unknown IDs are a no-op, repeated removal included.
	lc.OnExternalRemoval("chan-1")
	lc.OnExternalRemoval("never-existed")
	require.Equal(t, 0, registry.Len())
}

func TestLifecycle_Describe(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	lc := NewLifecycle(testLogger(t), platform, registry)

	_, err := lc.Describe("chan-1")
	require.ErrorIs(t, err, ErrNotFound)

	tk := newOpenTicket("chan-1", "U1")
	require.NoError(t, registry.Insert(tk))

	got, err := lc.Describe("chan-1")
	require.NoError(t, err)
	require.Equal(t, tk, got)
}
