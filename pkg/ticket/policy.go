package ticket

import (
	"github.com/Jacobbrewer1/discordgo"
)

// memberPermissions are the rights granted to the ticket owner and, via the
// support or manager roles, to the staff handling the ticket.
const memberPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionEmbedLinks

// operatorPermissions are the rights the bot grants itself on every ticket
// channel.
const operatorPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionManageChannels

// staffPermissions are the member rights plus message moderation for the
// support roles.
const staffPermissions = memberPermissions | discordgo.PermissionManageMessages

// PolicyInput is everything the access policy builder needs. It carries
// identities only; the builder itself never touches the network or any state.
type PolicyInput struct {
	// OwnerID is the user the ticket belongs to.
	OwnerID string

	// OperatorID is the bot's own user ID.
	OperatorID string

	// DefaultRoleID is the guild's @everyone role (same value as the guild
	// ID on Discord).
	DefaultRoleID string

	// SupportRoleIDs are the configured support roles, in configured
	// order. When empty the builder falls back to ManagerRoleIDs.
	SupportRoleIDs []string

	// ManagerRoleIDs are the roles holding channel-management capability,
	// in the order the caller received them from the platform. Only
	// consulted when SupportRoleIDs is empty.
	ManagerRoleIDs []string
}

// BuildOverwrites computes the permission overwrite list for a ticket
// channel. The result is deterministic: the default role deny first, then the
// owner, then the operator, then the support (or fallback manager) roles in
// input order. The default role never appears in the fallback entries.
func BuildOverwrites(in PolicyInput) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Lock the channel from the rest of the guild.
		{
			ID:   in.DefaultRoleID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The owner of the ticket can see and use the channel.
		{
			ID:    in.OwnerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberPermissions,
		},
		// The bot manages the channel.
		{
			ID:    in.OperatorID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: operatorPermissions,
		},
	}

	staffRoles := in.SupportRoleIDs
	if len(staffRoles) == 0 {
		staffRoles = in.ManagerRoleIDs
	}

	for _, roleID := range staffRoles {
		if roleID == in.DefaultRoleID {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffPermissions,
		})
	}

	return overwrites
}
