package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
)

// cmdNotify broadcasts a DM to a single user, every holder of a role, or the
// whole server. Delivery is best effort; the tally reports what failed.
func (h *Handler) cmdNotify(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionAdministrator) {
		ctx.replyEphemeral("You need the Administrator permission.")
		return
	}
	if len(ctx.args) < 2 {
		ctx.replyEphemeral("Usage: notify <user|role|all> <message>")
		return
	}

	message := strings.Join(ctx.args[1:], " ")
	embed := actionEmbed(
		fmt.Sprintf("Notification from %s", guildName(ctx.s, ctx.guildID)),
		message,
		colorInfo,
	)

	targets, label, err := h.collectNotifyTargets(ctx, ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("Could not resolve the notification target.")
		return
	}
	if len(targets) == 0 {
		ctx.reply("Nobody to notify.")
		return
	}

	sent, failed := 0, 0
	for _, userID := range targets {
		if err := sendDM(ctx.s, userID, embed); err != nil {
			failed++
			continue
		}
		sent++
	}

	ctx.replyEmbed(actionEmbed(
		"Notification sent",
		fmt.Sprintf("Target: %s\nDelivered: %d\nFailed: %d", label, sent, failed),
		colorSuccess,
	))
}

// collectNotifyTargets resolves the target argument to user ids. "all" walks
// the member list; a role mention selects its holders; anything else must be
// a user mention or id. Bots are never notified.
func (h *Handler) collectNotifyTargets(ctx *cmdContext, arg string) ([]string, string, error) {
	if strings.EqualFold(arg, "all") {
		ids, err := h.walkMembers(ctx.s, ctx.guildID, func(m *discordgo.Member) bool { return true })
		return ids, "everyone", err
	}

	if roleID, err := parseRoleID(arg); err == nil {
		roles, err := guildRolesByID(ctx.s, ctx.guildID)
		if err != nil {
			return nil, "", err
		}
		role, ok := roles[roleID]
		if ok && roleID != ctx.guildID {
			ids, err := h.walkMembers(ctx.s, ctx.guildID, func(m *discordgo.Member) bool {
				for _, r := range m.Roles {
					if r == roleID {
						return true
					}
				}
				return false
			})
			return ids, "role " + role.Name, err
		}
	}

	userID, err := parseUserID(arg)
	if err != nil {
		return nil, "", err
	}
	return []string{userID}, fmt.Sprintf("<@%s>", userID), nil
}

// walkMembers pages through the full member list and returns the ids of
// non-bot members matching the filter.
func (h *Handler) walkMembers(s *discordgo.Session, guildID string, match func(*discordgo.Member) bool) ([]string, error) {
	var ids []string
	after := ""
	for {
		members, err := s.GuildMembers(guildID, after, 1000)
		if err != nil {
			logger.Warningf("Error listing members of %s: %v", guildID, err)
			return nil, err
		}
		if len(members) == 0 {
			break
		}
		for _, member := range members {
			after = member.User.ID
			if member.User.Bot {
				continue
			}
			if match(member) {
				ids = append(ids, member.User.ID)
			}
		}
		if len(members) < 1000 {
			break
		}
	}
	return ids, nil
}
