package ticket

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/conciergebot/concierge/pkg/logging"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return l
}

func testRequest() *ProvisionRequest {
	return &ProvisionRequest{
		GuildID:        "guild-1",
		OwnerID:        "U1",
		OwnerName:      "Jane_Doe!!",
		Category:       CategoryBugReport,
		Inquiry:        "app crashes on login",
		SupportRoleIDs: []string{"role-support"},
	}
}

func TestProvisioner_Provision(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }

	tk, err := p.Provision(testRequest())
	require.NoError(t, err)

	// Exactly one ticket on record, openly owned by U1.
	require.Equal(t, 1, registry.Len())
	require.Equal(t, 1, registry.CountOpen("U1"))

	got, err := registry.Get(tk.ChannelID)
	require.NoError(t, err)
	require.Equal(t, "U1", got.OwnerID)
	require.Equal(t, StateOpen, got.State)
	require.Equal(t, CategoryBugReport, got.Category)
	require.Equal(t, "app crashes on login", got.Inquiry)

	// No category existed, so one was created and the ticket channel
	// parented under it.
	channels, err := platform.GuildChannels("guild-1")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	require.Equal(t, discordgo.ChannelTypeGuildCategory, channels[0].Type)
	require.Equal(t, channels[0].ID, channels[1].ParentID)

	require.Equal(t, "ticket-janedoe-1700000000000", channels[1].Name)
	require.Equal(t, "Bug Report ticket for Jane_Doe!!", channels[1].Topic)

	// Channel policy: everyone denied, owner allowed, operator manages,
	// support role granted.
	overwrites := channels[1].PermissionOverwrites
	require.Len(t, overwrites, 4)
	require.Equal(t, "guild-1", overwrites[0].ID)
	require.EqualValues(t, discordgo.PermissionViewChannel, overwrites[0].Deny)
	require.Equal(t, "U1", overwrites[1].ID)
	require.Equal(t, "bot-1", overwrites[2].ID)
	require.Equal(t, "role-support", overwrites[3].ID)

	// The welcome message landed in the new channel with the owner
	// mention and the inquiry text.
	sent := platform.sentMessages(tk.ChannelID)
	require.Len(t, sent, 1)
	require.Equal(t, "<@U1>", sent[0].Content)
	require.NotNil(t, sent[0].Embed)
	require.Equal(t, "app crashes on login", sent[0].Embed.Fields[1].Value)
}

func TestProvisioner_ReusesExistingCategory(t *testing.T) {
	platform := newFakePlatform()
	existing, err := platform.CreateChannel("guild-1", discordgo.GuildChannelCreateData{
		Name: "SUPPORT — Tickets",
		Type: discordgo.ChannelTypeGuildCategory,
	})
	require.NoError(t, err)

	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	tk, err := p.Provision(testRequest())
	require.NoError(t, err)

	got, err := registry.Get(tk.ChannelID)
	require.NoError(t, err)
	require.Equal(t, tk.ChannelID, got.ChannelID)

	channels, err := platform.GuildChannels("guild-1")
	require.NoError(t, err)
	require.Len(t, channels, 2, "No second category may be created")
	require.Equal(t, existing.ID, channels[1].ParentID)
}

func TestProvisioner_QuotaExceeded(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	for i := 0; i < MaxOpenPerOwner; i++ {
		require.NoError(t, registry.Insert(newOpenTicket(fmt.Sprintf("chan-pre-%d", i), "U1")))
	}

	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	_, err := p.Provision(testRequest())
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// Registry size for the owner is unchanged and no channel was made.
	require.Equal(t, MaxOpenPerOwner, registry.CountOpen("U1"))
	channels, err := platform.GuildChannels("guild-1")
	require.NoError(t, err)
	require.Empty(t, channels)
}

func TestProvisioner_ChannelCreationFails(t *testing.T) {
	platform := newFakePlatform()
	platform.createChannelErr = errFakePlatform

	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	_, err := p.Provision(testRequest())
	require.ErrorIs(t, err, ErrProvisioningFailed)
	require.Equal(t, 0, registry.Len())
}

func TestProvisioner_WelcomeDispatchFails(t *testing.T) {
	platform := newFakePlatform()
	platform.sendMessageErr = errFakePlatform

	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	_, err := p.Provision(testRequest())
	require.ErrorIs(t, err, ErrProvisioningFailed)

	// The channel exists and stays on record; only the welcome failed.
	require.Equal(t, 1, registry.CountOpen("U1"))
}

func TestProvisioner_ManagerFallback(t *testing.T) {
	platform := newFakePlatform()
	platform.roles["guild-1"] = []*discordgo.Role{
		{ID: "guild-1", Permissions: discordgo.PermissionManageChannels},
		{ID: "role-mod", Permissions: discordgo.PermissionManageChannels},
		{ID: "role-member", Permissions: discordgo.PermissionSendMessages},
		{ID: "role-admin", Permissions: discordgo.PermissionManageChannels},
	}

	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	req := testRequest()
	req.SupportRoleIDs = nil

	tk, err := p.Provision(req)
	require.NoError(t, err)

	channels, err := platform.GuildChannels("guild-1")
	require.NoError(t, err)

	var channel *discordgo.Channel
	for _, c := range channels {
		if c.ID == tk.ChannelID {
			channel = c
		}
	}
	require.NotNil(t, channel)

	// Manager roles in platform order, default role excluded.
	overwrites := channel.PermissionOverwrites
	require.Len(t, overwrites, 5)
	require.Equal(t, "role-mod", overwrites[3].ID)
	require.Equal(t, "role-admin", overwrites[4].ID)
}

func TestProvisioner_SerialisesPerOwner(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	p := NewProvisioner(testLogger(t), platform, registry, "bot-1")

	// Near-simultaneous requests from one owner must never admit a ticket
	// beyond the cap.
	var wg sync.WaitGroup
	results := make(chan error, MaxOpenPerOwner*2)
	for i := 0; i < MaxOpenPerOwner*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Provision(testRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrQuotaExceeded)
		}
	}
	require.Equal(t, MaxOpenPerOwner, succeeded)
	require.Equal(t, MaxOpenPerOwner, registry.CountOpen("U1"))
}
