package ticket

import (
	"sync"
)

// Registry is the authoritative in-memory store of open tickets. It is
// volatile by design; tickets do not survive a restart. It never calls out to
// the platform.
//
// The registry is safe for concurrent use. Insert performs its quota check
// and the insert under one lock, so a single Insert can never push an owner
// past the cap; callers that perform work between counting and inserting must
// serialise that work themselves (see Provisioner).
type Registry struct {
	mu sync.RWMutex

	// tickets maps channel ID to ticket.
	tickets map[string]*Ticket
}

// NewRegistry creates an empty ticket registry.
func NewRegistry() *Registry {
	return &Registry{
		tickets: make(map[string]*Ticket),
	}
}

// CountOpen returns the number of open tickets owned by the given user.
func (r *Registry) CountOpen(ownerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, t := range r.tickets {
		if t.OwnerID == ownerID && t.State == StateOpen {
			count++
		}
	}
	return count
}

// Insert adds a ticket to the registry. It fails with ErrQuotaExceeded if the
// owner is already at the open ticket cap, and with ErrDuplicateTicket if a
// ticket already exists for the channel.
func (r *Registry) Insert(t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[t.ChannelID]; ok {
		return ErrDuplicateTicket
	}

	count := 0
	for _, existing := range r.tickets {
		if existing.OwnerID == t.OwnerID && existing.State == StateOpen {
			count++
		}
	}
	if count >= MaxOpenPerOwner {
		return ErrQuotaExceeded
	}

	r.tickets[t.ChannelID] = t
	return nil
}

// Get returns the ticket for the given channel, or ErrNotFound.
func (r *Registry) Get(channelID string) (*Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[channelID]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Remove removes the ticket for the given channel if present. It is
// idempotent and returns whether a record was removed.
func (r *Registry) Remove(channelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tickets[channelID]
	delete(r.tickets, channelID)
	return ok
}

// Len returns the total number of tickets in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}
