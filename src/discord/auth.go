package discord

import "github.com/bwmarrin/discordgo"

// HasRole checks whether a user has a role in a guild. Empty roleID always returns true.
func HasRole(s *discordgo.Session, guildID, userID, roleID string) bool {
	if roleID == "" {
		return true
	}
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return false
	}
	return MemberHasAnyRole(member, roleID)
}

// MemberHasAnyRole reports whether member holds at least one of roleIDs.
// Empty IDs are ignored, so an unconfigured role grants nothing.
func MemberHasAnyRole(member *discordgo.Member, roleIDs ...string) bool {
	if member == nil {
		return false
	}
	for _, want := range roleIDs {
		if want == "" {
			continue
		}
		for _, role := range member.Roles {
			if role == want {
				return true
			}
		}
	}
	return false
}
