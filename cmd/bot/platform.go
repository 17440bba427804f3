package main

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
)

// sessionPlatform adapts the discord session to the ticket.Platform
// interface so the ticket core never holds the session itself.
type sessionPlatform struct {
	s *discordgo.Session
}

func newSessionPlatform(s *discordgo.Session) *sessionPlatform {
	return &sessionPlatform{s: s}
}

func (p *sessionPlatform) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	return p.s.GuildChannels(guildID)
}

func (p *sessionPlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return p.s.GuildChannelCreateComplex(guildID, data)
}

func (p *sessionPlatform) DeleteChannel(channelID string) error {
	if _, err := p.s.ChannelDelete(channelID); err != nil {
		er := new(discordgo.RESTError)
		if errors.As(err, &er) && (er.Message.Code == discordgo.ErrCodeUnknownChannel || er.Message.Code == discordgo.ErrCodeGeneralError) { // General is thrown when a 404 is returned.
			// The channel is already gone, which is what deletion was
			// after in the first place.
			return nil
		}
		return err
	}
	return nil
}

func (p *sessionPlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.s.ChannelMessageSendComplex(channelID, msg)
}

func (p *sessionPlatform) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return p.s.GuildRoles(guildID)
}
