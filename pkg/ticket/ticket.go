// Package ticket implements the ticket lifecycle manager: the registry of
// open tickets, the channel access policy, intake validation, channel
// provisioning and close/removal handling. It talks to Discord only through
// the Platform interface so that the host layer owns the session.
package ticket

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxOpenPerOwner is the number of tickets a single user may have open
	// at once.
	MaxOpenPerOwner = 3

	// MaxInquiryLength is the maximum length of the intake inquiry text.
	MaxInquiryLength = 1000

	// ChannelPrefix is the prefix of every ticket channel name.
	ChannelPrefix = "ticket-"

	// DefaultCloseDelay is how long a close request waits before the
	// channel is deleted.
	DefaultCloseDelay = 3 * time.Second
)

// Category is the kind of support request a ticket was opened for. It is a
// closed set; free text is never accepted as a category.
type Category string

const (
	CategoryGeneral     Category = "General"
	CategoryBugReport   Category = "Bug Report"
	CategoryPartnership Category = "Partnership Request"
)

// Categories lists every valid category in panel order.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryBugReport, CategoryPartnership}
}

// ParseCategory parses a category from its string form.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// State is the lifecycle state of a ticket. There is no Closed state; a
// closed ticket is removed from the registry entirely.
type State string

const (
	StateOpen    State = "open"
	StateClosing State = "closing"
)

// Ticket is one open support conversation, backed by a dedicated private
// channel. The channel ID doubles as the ticket ID for its entire lifetime.
type Ticket struct {
	// ChannelID is the ID of the channel backing the ticket.
	ChannelID string `json:"channel_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id"`

	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string `json:"owner_id"`

	// OwnerName is the display name of the user that opened the ticket,
	// captured at creation for channel naming.
	OwnerName string `json:"owner_name"`

	// Category is the kind of support request.
	Category Category `json:"category"`

	// Inquiry is the free text the owner supplied during intake. It is set
	// once at creation and never mutated.
	Inquiry string `json:"inquiry,omitempty"`

	// State is the lifecycle state.
	State State `json:"state"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt time.Time `json:"created_at"`
}

// Name derives the ticket's channel name from the owner name and creation
// time.
func (t *Ticket) Name() string {
	return ChannelName(t.OwnerName, t.CreatedAt)
}

// channelNameStrip matches every character that may not appear in a ticket
// channel name.
var channelNameStrip = regexp.MustCompile(`[^a-z0-9-]`)

// ChannelName derives a ticket channel name: "ticket-<owner>-<unix millis>",
// lower-cased with every character outside [a-z0-9-] stripped. Collisions are
// not deduplicated beyond the timestamp's natural uniqueness.
func ChannelName(ownerName string, createdAt time.Time) string {
	name := fmt.Sprintf("%s%s-%d", ChannelPrefix, ownerName, createdAt.UnixMilli())
	return channelNameStrip.ReplaceAllString(strings.ToLower(name), "")
}

// IsTicketChannel reports whether a channel name follows the ticket naming
// convention.
func IsTicketChannel(channelName string) bool {
	return strings.HasPrefix(channelName, ChannelPrefix)
}
