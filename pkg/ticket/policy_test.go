package ticket

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestBuildOverwrites_SupportRoles(t *testing.T) {
	in := PolicyInput{
		OwnerID:        "owner-1",
		OperatorID:     "bot-1",
		DefaultRoleID:  "guild-1",
		SupportRoleIDs: []string{"role-a", "role-b"},
		// Ignored while support roles are configured.
		ManagerRoleIDs: []string{"role-z"},
	}

	got := BuildOverwrites(in)
	require.Len(t, got, 5)

	// The default role entry always denies view.
	require.Equal(t, "guild-1", got[0].ID)
	require.Equal(t, discordgo.PermissionOverwriteTypeRole, got[0].Type)
	require.EqualValues(t, discordgo.PermissionViewChannel, got[0].Deny)
	require.Zero(t, got[0].Allow)

	// The owner entry always allows view and send.
	require.Equal(t, "owner-1", got[1].ID)
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, got[1].Type)
	require.NotZero(t, got[1].Allow&discordgo.PermissionViewChannel)
	require.NotZero(t, got[1].Allow&discordgo.PermissionSendMessages)

	// The operator entry always allows manage.
	require.Equal(t, "bot-1", got[2].ID)
	require.NotZero(t, got[2].Allow&discordgo.PermissionManageChannels)

	// Support roles follow in configured order, with moderation rights.
	require.Equal(t, "role-a", got[3].ID)
	require.Equal(t, "role-b", got[4].ID)
	require.NotZero(t, got[3].Allow&discordgo.PermissionManageMessages)
}

func TestBuildOverwrites_ManagerFallback(t *testing.T) {
	in := PolicyInput{
		OwnerID:       "owner-1",
		OperatorID:    "bot-1",
		DefaultRoleID: "guild-1",
		// The default role must never gain an allow entry, even when it
		// shows up in the fallback set.
		ManagerRoleIDs: []string{"role-m1", "guild-1", "role-m2"},
	}

	got := BuildOverwrites(in)
	require.Len(t, got, 5)
	require.Equal(t, "role-m1", got[3].ID)
	require.Equal(t, "role-m2", got[4].ID)
}

func TestBuildOverwrites_Deterministic(t *testing.T) {
	in := PolicyInput{
		OwnerID:        "owner-1",
		OperatorID:     "bot-1",
		DefaultRoleID:  "guild-1",
		SupportRoleIDs: []string{"role-a", "role-b", "role-c"},
	}

	first := BuildOverwrites(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, BuildOverwrites(in))
	}
}
