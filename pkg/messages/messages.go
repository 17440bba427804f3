// Package messages contains the user-facing strings that the bot sends in
// ephemeral responses.
package messages

const (
	// ErrUserErrorProcessing is sent when a command fails for a reason the
	// user cannot fix.
	ErrUserErrorProcessing = "Something went wrong processing your request. Please try again later."

	// ErrUserQuotaExceeded is sent when a user is already at the open
	// ticket cap.
	ErrUserQuotaExceeded = "You already have 3 open tickets. Please close one before opening a new ticket."

	// ErrUserNotATicketChannel is sent when a ticket command is used
	// outside a ticket channel.
	ErrUserNotATicketChannel = "This command can only be used in ticket channels."

	// ErrUserTicketNotFound is sent when there is no ticket on record for
	// the channel.
	ErrUserTicketNotFound = "There is no information available for this channel."

	// ErrUserProvisioningFailed is sent when creating the ticket channel
	// failed.
	ErrUserProvisioningFailed = "There was an error creating your ticket. Please contact an administrator."

	// ErrUserRateLimited is sent when a user is pressing the panel buttons
	// too quickly.
	ErrUserRateLimited = "You are doing that too fast. Please wait a moment and try again."

	// TicketClosing is sent into a ticket channel when it is about to be
	// deleted.
	TicketClosing = "Closing ticket in 3 seconds..."
)
