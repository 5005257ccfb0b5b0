// Package permissions normalises platform member shapes into simple
// capability checks so the rest of the bot never inspects raw role lists.
package permissions

import (
	"github.com/Jacobbrewer1/discordgo"
)

// HasAnyRole reports whether the member holds at least one of the given
// roles.
func HasAnyRole(member *discordgo.Member, roleIDs []string) bool {
	if member == nil || len(roleIDs) == 0 {
		return false
	}

	wanted := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = struct{}{}
	}

	for _, roleID := range member.Roles {
		if _, ok := wanted[roleID]; ok {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the member has the administrator permission.
func IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// IsStaff reports whether the member is staff for the guild: an
// administrator, or a holder of any configured staff role.
func IsStaff(member *discordgo.Member, staffRoleIDs []string) bool {
	return IsAdmin(member) || HasAnyRole(member, staffRoleIDs)
}
