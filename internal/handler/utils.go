package handler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
)

// embed colors
const (
	colorAction  = 0xED4245 // punitive actions
	colorInfo    = 0x5865F2 // reports, case pages
	colorWarning = 0xFEE75C // confirmations
	colorSuccess = 0x57F287
)

var snowflakeRegex = regexp.MustCompile(`^\d{15,21}$`)

// parseUserID extracts a user snowflake from a raw id or a mention form.
func parseUserID(arg string) (string, error) {
	id := strings.TrimSpace(arg)
	id = strings.TrimPrefix(id, "<@")
	id = strings.TrimPrefix(id, "!")
	id = strings.TrimSuffix(id, ">")
	if !snowflakeRegex.MatchString(id) {
		return "", fmt.Errorf("not a user id or mention: %q", arg)
	}
	return id, nil
}

// parseRoleID extracts a role snowflake from a raw id or a mention form.
func parseRoleID(arg string) (string, error) {
	id := strings.TrimSpace(arg)
	id = strings.TrimPrefix(id, "<@&")
	id = strings.TrimSuffix(id, ">")
	if !snowflakeRegex.MatchString(id) {
		return "", fmt.Errorf("not a role id or mention: %q", arg)
	}
	return id, nil
}

// parseChannelID extracts a channel snowflake from a raw id or a mention form.
func parseChannelID(arg string) (string, error) {
	id := strings.TrimSpace(arg)
	id = strings.TrimPrefix(id, "<#")
	id = strings.TrimSuffix(id, ">")
	if !snowflakeRegex.MatchString(id) {
		return "", fmt.Errorf("not a channel id or mention: %q", arg)
	}
	return id, nil
}

// fetchMember resolves a guild member, preferring the state cache.
func fetchMember(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, userID); err == nil && member != nil {
		return member, nil
	}
	return s.GuildMember(guildID, userID)
}

// guildRolesByID loads the guild role list keyed by id.
func guildRolesByID(s *discordgo.Session, guildID string) (map[string]*discordgo.Role, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
	}
	return byID, nil
}

// highestRolePosition derives a member's authority rank from their
// highest-positioned role.
func highestRolePosition(member *discordgo.Member, roles map[string]*discordgo.Role) int {
	highest := 0
	for _, roleID := range member.Roles {
		if role, ok := roles[roleID]; ok && role.Position > highest {
			highest = role.Position
		}
	}
	return highest
}

// outranks reports whether the actor's authority strictly exceeds the
// target's. The guild owner outranks everyone; equal rank loses.
func outranks(ownerID string, actor, target *discordgo.Member, roles map[string]*discordgo.Role) bool {
	if actor.User.ID == ownerID {
		return true
	}
	if target.User.ID == ownerID {
		return false
	}
	return highestRolePosition(actor, roles) > highestRolePosition(target, roles)
}

// memberPermissions computes the actor's permission bits in a channel,
// falling back to the API when the state cache cannot answer.
func memberPermissions(s *discordgo.Session, userID, channelID string) (int64, error) {
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err == nil {
		return perms, nil
	}
	return s.UserChannelPermissions(userID, channelID)
}

func hasPermission(perms, required int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// sendDM delivers a best-effort direct message; the caller decides whether a
// failure matters.
func sendDM(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

// userTag renders "name" or "name (nick)" for report embeds.
func userTag(user *discordgo.User) string {
	if user == nil {
		return "unknown user"
	}
	if user.Discriminator != "" && user.Discriminator != "0" {
		return user.Username + "#" + user.Discriminator
	}
	return user.Username
}

func actionEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// mirrorToReviewChannel copies a moderation report into the guild's
// configured review channel, if any. Failures are logged, never surfaced.
func mirrorToReviewChannel(s *discordgo.Session, reviewChannelID string, embed *discordgo.MessageEmbed) {
	if reviewChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(reviewChannelID, embed); err != nil {
		logger.Warningf("Error mirroring report to review channel %s: %v", reviewChannelID, err)
	}
}
