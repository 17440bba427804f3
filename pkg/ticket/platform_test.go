package ticket

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
)

// fakePlatform is an in-memory Platform for tests. It records every channel,
// message and deletion, and can be told to fail individual calls.
type fakePlatform struct {
	mu sync.Mutex

	// channels maps guild ID to its channels.
	channels map[string][]*discordgo.Channel

	// roles maps guild ID to its roles.
	roles map[string][]*discordgo.Role

	// sent maps channel ID to the messages sent into it.
	sent map[string][]*discordgo.MessageSend

	// deleted is every channel ID passed to DeleteChannel, in order.
	deleted []string

	// nextID numbers created channels.
	nextID int

	listChannelsErr  error
	createChannelErr error
	sendMessageErr   error
	deleteChannelErr error
	listRolesErr     error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels: make(map[string][]*discordgo.Channel),
		roles:    make(map[string][]*discordgo.Role),
		sent:     make(map[string][]*discordgo.MessageSend),
	}
}

func (f *fakePlatform) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listChannelsErr != nil {
		return nil, f.listChannelsErr
	}
	return append([]*discordgo.Channel(nil), f.channels[guildID]...), nil
}

func (f *fakePlatform) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createChannelErr != nil {
		return nil, f.createChannelErr
	}

	f.nextID++
	c := &discordgo.Channel{
		ID:                   fmt.Sprintf("chan-%d", f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[guildID] = append(f.channels[guildID], c)
	return c, nil
}

func (f *fakePlatform) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteChannelErr != nil {
		return f.deleteChannelErr
	}
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakePlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendMessageErr != nil {
		return nil, f.sendMessageErr
	}
	f.sent[channelID] = append(f.sent[channelID], msg)
	return &discordgo.Message{ID: fmt.Sprintf("msg-%d", len(f.sent[channelID])), ChannelID: channelID}, nil
}

func (f *fakePlatform) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listRolesErr != nil {
		return nil, f.listRolesErr
	}
	return append([]*discordgo.Role(nil), f.roles[guildID]...), nil
}

// sentMessages returns a copy of the messages sent into a channel.
func (f *fakePlatform) sentMessages(channelID string) []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.MessageSend(nil), f.sent[channelID]...)
}

// deletedChannels returns a copy of the deletion log.
func (f *fakePlatform) deletedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

var errFakePlatform = errors.New("platform unavailable")
