package permissions

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestHasAnyRole(t *testing.T) {
	member := &discordgo.Member{Roles: []string{"a", "b"}}

	tests := []struct {
		name    string
		member  *discordgo.Member
		roleIDs []string
		want    bool
	}{
		{
			name:    "HasRole",
			member:  member,
			roleIDs: []string{"b", "c"},
			want:    true,
		},
		{
			name:    "NoMatchingRole",
			member:  member,
			roleIDs: []string{"c", "d"},
			want:    false,
		},
		{
			name:    "EmptyWanted",
			member:  member,
			roleIDs: nil,
			want:    false,
		},
		{
			name:    "NilMember",
			member:  nil,
			roleIDs: []string{"a"},
			want:    false,
		},
		{
			name:    "MemberWithoutRoles",
			member:  &discordgo.Member{},
			roleIDs: []string{"a"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HasAnyRole(tt.member, tt.roleIDs))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	require.True(t, IsAdmin(&discordgo.Member{Permissions: discordgo.PermissionAdministrator}))
	require.True(t, IsAdmin(&discordgo.Member{Permissions: discordgo.PermissionAll}))
	require.False(t, IsAdmin(&discordgo.Member{Permissions: discordgo.PermissionSendMessages}))
	require.False(t, IsAdmin(nil))
}

func TestIsStaff(t *testing.T) {
	staffRoles := []string{"staff"}

	require.True(t, IsStaff(&discordgo.Member{Roles: []string{"staff"}}, staffRoles))
	require.True(t, IsStaff(&discordgo.Member{Permissions: discordgo.PermissionAdministrator}, staffRoles))
	require.False(t, IsStaff(&discordgo.Member{Roles: []string{"member"}}, staffRoles))
	require.False(t, IsStaff(nil, staffRoles))
}
