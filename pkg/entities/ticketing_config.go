package entities

import "github.com/conciergebot/concierge/pkg/custom"

type TicketingConfig struct {
	// Enabled is whether ticketing is enabled.
	Enabled bool `json:"enabled" bson:"enabled"`

	// ChannelID is the ID of the channel that the ticket panel lives in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// RoleID is the ID of the support role that handles tickets. This may
	// be empty, in which case ticket channels fall back to granting every
	// role that can manage channels.
	RoleID string `json:"role_id" bson:"role_id"`

	// PanelMessageID is the ID of the panel message with the category
	// buttons.
	PanelMessageID string `json:"panel_message_id" bson:"panel_message_id"`

	// EnabledAt is the time that ticketing was last enabled.
	EnabledAt custom.Datetime `json:"enabled_at" bson:"enabled_at"`
}
