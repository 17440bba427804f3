package ticket

import "errors"

var (
	// ErrQuotaExceeded is returned when a user is already at the open
	// ticket cap.
	ErrQuotaExceeded = errors.New("open ticket quota exceeded")

	// ErrNotATicketChannel is returned when a ticket operation is invoked
	// against a channel that is not a ticket channel.
	ErrNotATicketChannel = errors.New("not a ticket channel")

	// ErrProvisioningFailed is returned when creating the ticket channel,
	// its category or the welcome message failed.
	ErrProvisioningFailed = errors.New("ticket provisioning failed")

	// ErrNotFound is returned when there is no ticket on record for the
	// given channel.
	ErrNotFound = errors.New("ticket not found")

	// ErrDuplicateTicket is returned when a ticket already exists for the
	// given channel.
	ErrDuplicateTicket = errors.New("ticket already exists for channel")
)
