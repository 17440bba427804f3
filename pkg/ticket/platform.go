package ticket

import (
	"github.com/Jacobbrewer1/discordgo"
)

// Platform is the slice of the chat platform the ticket manager needs. The
// host layer implements it on top of the Discord session; tests implement it
// with an in-memory fake.
type Platform interface {
	// GuildChannels lists all channels in a guild.
	GuildChannels(guildID string) ([]*discordgo.Channel, error)

	// CreateChannel creates a channel (or category) in a guild.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// SendMessage sends a message into a channel.
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// GuildRoles lists all roles in a guild, in the order the platform
	// defines them.
	GuildRoles(guildID string) ([]*discordgo.Role, error)
}
