package ticket

import (
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/conciergebot/concierge/pkg/messages"
	"github.com/conciergebot/concierge/pkg/ticket/monitoring"
)

// Lifecycle handles close requests and external deletion notifications,
// keeping the registry consistent with the real channel set.
type Lifecycle struct {
	// l is the logger.
	l *slog.Logger

	// platform is the chat platform.
	platform Platform

	// registry is the store of open tickets.
	registry *Registry

	// closeDelay is how long RequestClose waits before deleting the
	// channel.
	closeDelay time.Duration
}

// NewLifecycle creates a new lifecycle controller.
func NewLifecycle(l *slog.Logger, platform Platform, registry *Registry) *Lifecycle {
	return &Lifecycle{
		l:          l,
		platform:   platform,
		registry:   registry,
		closeDelay: DefaultCloseDelay,
	}
}

// RequestClose closes the ticket backed by the given channel. The registry
// entry is removed immediately, before the delayed deletion completes, so no
// new interactions can land on a ticket that is committed to closing. The
// deletion itself is fire-and-forget: a channel that is already gone when the
// timer fires is success, not failure.
func (lc *Lifecycle) RequestClose(channelID, channelName string) (*Ticket, error) {
	if !IsTicketChannel(channelName) {
		return nil, ErrNotATicketChannel
	}

	t, err := lc.registry.Get(channelID)
	if err == nil {
		if lc.registry.Remove(channelID) {
			monitoring.OpenTickets.Dec()
		}
		t.State = StateClosing
	} else {
		// The channel follows the naming convention but is not on
		// record, e.g. it predates a restart. Still delete it.
		lc.l.Warn("Closing ticket channel with no registry entry",
			slog.String(logging.KeyChannel, channelID))
	}

	monitoring.TicketsClosed.WithLabelValues("request").Inc()

	if _, err := lc.platform.SendMessage(channelID, &discordgo.MessageSend{
		Content: messages.TicketClosing,
	}); err != nil {
		lc.l.Error("Error sending closing notice",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	time.AfterFunc(lc.closeDelay, func() {
		if err := lc.platform.DeleteChannel(channelID); err != nil {
			// The channel may have been removed by other means while
			// the timer ran; the visible state is the source of
			// truth, not the registry.
			lc.l.Warn("Error deleting ticket channel",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	})

	return t, nil
}

// OnExternalRemoval records that the backing channel ceased to exist through
// any path other than RequestClose, e.g. manual deletion by an operator. It
// is a no-op for unknown channels.
func (lc *Lifecycle) OnExternalRemoval(channelID string) {
	if !lc.registry.Remove(channelID) {
		return
	}

	monitoring.OpenTickets.Dec()
	monitoring.TicketsClosed.WithLabelValues("external").Inc()

	lc.l.Info("Ticket removed after external channel deletion",
		slog.String(logging.KeyChannel, channelID))
}

// Describe returns the ticket for the given channel, or ErrNotFound.
func (lc *Lifecycle) Describe(channelID string) (*Ticket, error) {
	return lc.registry.Get(channelID)
}
