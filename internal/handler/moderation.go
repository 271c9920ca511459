package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/models"
	"discord-warden/internal/service"
)

const storeTimeout = 10 * time.Second

func contextWithStoreTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// guildName resolves a guild's display name, preferring the state cache.
func guildName(s *discordgo.Session, guildID string) string {
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	if guild, err := s.Guild(guildID); err == nil {
		return guild.Name
	}
	return "this server"
}

// guildOwnerID resolves the guild owner for authority comparisons.
func guildOwnerID(s *discordgo.Session, guildID string) string {
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		return guild.OwnerID
	}
	if guild, err := s.Guild(guildID); err == nil {
		return guild.OwnerID
	}
	return ""
}

// reasonFromArgs joins trailing arguments into a reason string.
func reasonFromArgs(args []string) string {
	reason := strings.TrimSpace(strings.Join(args, " "))
	if reason == "" {
		return "No reason provided"
	}
	return reason
}

// recordCase writes a case record, logging rather than failing the command
// when the store is unavailable.
func (h *Handler) recordCase(ctx *cmdContext, caseType models.CaseType, targetID, reason, duration string, expiresAt *time.Time) *models.CaseRecord {
	storeCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	rec, err := service.CreateCase(storeCtx, &models.CaseRecord{
		GuildID:     ctx.guildID,
		UserID:      targetID,
		ModeratorID: ctx.actorID(),
		Type:        caseType,
		Reason:      reason,
		Duration:    duration,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		logger.Warningf("Error recording %s case for %s: %v", caseType, targetID, err)
		return nil
	}
	return rec
}

// reportAction renders the standard moderation report and mirrors it to the
// guild's review channel.
func (h *Handler) reportAction(ctx *cmdContext, title, description string, rec *models.CaseRecord, dmFailed bool) {
	if rec != nil {
		description += fmt.Sprintf("\nCase #%d", rec.CaseID)
	}
	if dmFailed {
		description += "\nCould not notify the user by DM."
	}
	embed := actionEmbed(title, description, colorAction)
	ctx.replyEmbed(embed)
	mirrorToReviewChannel(ctx.s, service.GetGuildSettings(ctx.guildID).ReviewChannelID, embed)
}

// checkSingleTarget performs the shared validation for single-target
// punitive commands: target resolution, self/bot exclusion and the
// authority-rank comparison. A nil member return means the command replied
// already.
func (h *Handler) checkSingleTarget(ctx *cmdContext, arg string) *discordgo.Member {
	userID, err := parseUserID(arg)
	if err != nil {
		ctx.replyEphemeral("That does not look like a user mention or id.")
		return nil
	}
	if userID == h.botID {
		ctx.replyEphemeral("I am not going to do that to myself.")
		return nil
	}
	if userID == ctx.actorID() {
		ctx.replyEphemeral("You cannot target yourself.")
		return nil
	}

	target, err := fetchMember(ctx.s, ctx.guildID, userID)
	if err != nil {
		ctx.replyEphemeral("Could not find that member in this server.")
		return nil
	}

	roles, err := guildRolesByID(ctx.s, ctx.guildID)
	if err != nil {
		logger.Warningf("Error loading roles for guild %s: %v", ctx.guildID, err)
		ctx.replyEphemeral("Could not check role hierarchy, try again.")
		return nil
	}
	if !outranks(guildOwnerID(ctx.s, ctx.guildID), ctx.member, target, roles) {
		ctx.replyEphemeral("That member's highest role is equal to or above yours.")
		return nil
	}
	return target
}

func (h *Handler) cmdBan(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionBanMembers) {
		ctx.replyEphemeral("You need the Ban Members permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: ban <user> [reason]")
		return
	}

	target := h.checkSingleTarget(ctx, ctx.args[0])
	if target == nil {
		return
	}
	reason := reasonFromArgs(ctx.args[1:])

	// Notify before the ban lands; afterwards the DM is undeliverable.
	dmErr := sendDM(ctx.s, target.User.ID, actionEmbed(
		"You have been banned",
		fmt.Sprintf("Server: %s\nReason: %s", guildName(ctx.s, ctx.guildID), reason),
		colorAction,
	))

	if err := ctx.s.GuildBanCreateWithReason(ctx.guildID, target.User.ID, reason, 0); err != nil {
		logger.Warningf("Error banning %s in guild %s: %v", target.User.ID, ctx.guildID, err)
		ctx.replyEphemeral("The ban failed; check my permissions and role position.")
		return
	}

	rec := h.recordCase(ctx, models.CaseBan, target.User.ID, reason, "", nil)
	h.reportAction(ctx, "Member banned",
		fmt.Sprintf("**%s** was banned.\nReason: %s", userTag(target.User), reason),
		rec, dmErr != nil)
}

func (h *Handler) cmdTempban(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionBanMembers) {
		ctx.replyEphemeral("You need the Ban Members permission.")
		return
	}
	if len(ctx.args) < 2 {
		ctx.replyEphemeral("Usage: tempban <user> <duration> [reason]")
		return
	}

	duration, err := parseDuration(ctx.args[1])
	if err != nil {
		ctx.replyEphemeral(err.Error())
		return
	}

	target := h.checkSingleTarget(ctx, ctx.args[0])
	if target == nil {
		return
	}
	reason := reasonFromArgs(ctx.args[2:])
	expiresAt := time.Now().Add(duration)

	dmErr := sendDM(ctx.s, target.User.ID, actionEmbed(
		"You have been banned",
		fmt.Sprintf("Server: %s\nDuration: %s\nReason: %s",
			guildName(ctx.s, ctx.guildID), formatDuration(duration), reason),
		colorAction,
	))

	if err := ctx.s.GuildBanCreateWithReason(ctx.guildID, target.User.ID, reason, 0); err != nil {
		logger.Warningf("Error tempbanning %s in guild %s: %v", target.User.ID, ctx.guildID, err)
		ctx.replyEphemeral("The ban failed; check my permissions and role position.")
		return
	}

	// Best-effort in-process unban timer; a restart drops it, the case
	// record keeps the expiry for manual review.
	guildID, userID := ctx.guildID, target.User.ID
	time.AfterFunc(duration, func() {
		if err := h.session.GuildBanDelete(guildID, userID); err != nil {
			logger.Warningf("Error lifting tempban for %s in guild %s: %v", userID, guildID, err)
		}
	})

	rec := h.recordCase(ctx, models.CaseBan, target.User.ID, reason, formatDuration(duration), &expiresAt)
	h.reportAction(ctx, "Member temporarily banned",
		fmt.Sprintf("**%s** was banned for %s.\nReason: %s", userTag(target.User), formatDuration(duration), reason),
		rec, dmErr != nil)
}

func (h *Handler) cmdUnban(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionBanMembers) {
		ctx.replyEphemeral("You need the Ban Members permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: unban <user id> [reason]")
		return
	}

	userID, err := parseUserID(ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("That does not look like a user id.")
		return
	}
	reason := reasonFromArgs(ctx.args[1:])

	if _, err := ctx.s.GuildBan(ctx.guildID, userID); err != nil {
		ctx.replyEphemeral("That user is not banned here.")
		return
	}

	if err := ctx.s.GuildBanDelete(ctx.guildID, userID); err != nil {
		logger.Warningf("Error unbanning %s in guild %s: %v", userID, ctx.guildID, err)
		ctx.replyEphemeral("The unban failed; check my permissions.")
		return
	}

	rec := h.recordCase(ctx, models.CaseUnban, userID, reason, "", nil)
	h.reportAction(ctx, "Member unbanned",
		fmt.Sprintf("<@%s> was unbanned.\nReason: %s", userID, reason),
		rec, false)
}

func (h *Handler) cmdKick(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionKickMembers) {
		ctx.replyEphemeral("You need the Kick Members permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: kick <user> [reason]")
		return
	}

	target := h.checkSingleTarget(ctx, ctx.args[0])
	if target == nil {
		return
	}
	reason := reasonFromArgs(ctx.args[1:])

	dmErr := sendDM(ctx.s, target.User.ID, actionEmbed(
		"You have been kicked",
		fmt.Sprintf("Server: %s\nReason: %s", guildName(ctx.s, ctx.guildID), reason),
		colorAction,
	))

	if err := ctx.s.GuildMemberDeleteWithReason(ctx.guildID, target.User.ID, reason); err != nil {
		logger.Warningf("Error kicking %s in guild %s: %v", target.User.ID, ctx.guildID, err)
		ctx.replyEphemeral("The kick failed; check my permissions and role position.")
		return
	}

	rec := h.recordCase(ctx, models.CaseKick, target.User.ID, reason, "", nil)
	h.reportAction(ctx, "Member kicked",
		fmt.Sprintf("**%s** was kicked.\nReason: %s", userTag(target.User), reason),
		rec, dmErr != nil)
}

func (h *Handler) cmdMute(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionModerateMembers) {
		ctx.replyEphemeral("You need the Timeout Members permission.")
		return
	}
	if len(ctx.args) < 2 {
		ctx.replyEphemeral("Usage: mute <user> <duration> [reason]")
		return
	}

	duration, err := parseDuration(ctx.args[1])
	if err != nil {
		ctx.replyEphemeral(err.Error())
		return
	}

	target := h.checkSingleTarget(ctx, ctx.args[0])
	if target == nil {
		return
	}
	reason := reasonFromArgs(ctx.args[2:])
	until := time.Now().Add(duration)

	dmErr := sendDM(ctx.s, target.User.ID, actionEmbed(
		"You have been muted",
		fmt.Sprintf("Server: %s\nDuration: %s\nReason: %s",
			guildName(ctx.s, ctx.guildID), formatDuration(duration), reason),
		colorAction,
	))

	if err := ctx.s.GuildMemberTimeout(ctx.guildID, target.User.ID, &until); err != nil {
		logger.Warningf("Error muting %s in guild %s: %v", target.User.ID, ctx.guildID, err)
		ctx.replyEphemeral("The mute failed; check my permissions and role position.")
		return
	}

	rec := h.recordCase(ctx, models.CaseMute, target.User.ID, reason, formatDuration(duration), &until)
	h.reportAction(ctx, "Member muted",
		fmt.Sprintf("**%s** was muted for %s.\nReason: %s", userTag(target.User), formatDuration(duration), reason),
		rec, dmErr != nil)
}

func (h *Handler) cmdUnmute(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionModerateMembers) {
		ctx.replyEphemeral("You need the Timeout Members permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: unmute <user> [reason]")
		return
	}

	target := h.checkSingleTarget(ctx, ctx.args[0])
	if target == nil {
		return
	}
	reason := reasonFromArgs(ctx.args[1:])

	if err := ctx.s.GuildMemberTimeout(ctx.guildID, target.User.ID, nil); err != nil {
		logger.Warningf("Error unmuting %s in guild %s: %v", target.User.ID, ctx.guildID, err)
		ctx.replyEphemeral("The unmute failed; check my permissions.")
		return
	}

	rec := h.recordCase(ctx, models.CaseUnmute, target.User.ID, reason, "", nil)
	h.reportAction(ctx, "Member unmuted",
		fmt.Sprintf("**%s** was unmuted.\nReason: %s", userTag(target.User), reason),
		rec, false)
}

// setChannelLock edits the @everyone overwrite on the invoking channel,
// preserving unrelated bits.
func setChannelLock(s *discordgo.Session, guildID, channelID string, locked bool) error {
	channel, err := s.Channel(channelID)
	if err != nil {
		return err
	}

	var allow, deny int64
	for _, overwrite := range channel.PermissionOverwrites {
		// The @everyone role id equals the guild id.
		if overwrite.ID == guildID && overwrite.Type == discordgo.PermissionOverwriteTypeRole {
			allow, deny = overwrite.Allow, overwrite.Deny
			break
		}
	}

	if locked {
		deny |= discordgo.PermissionSendMessages
		allow &^= discordgo.PermissionSendMessages
	} else {
		deny &^= discordgo.PermissionSendMessages
	}

	return s.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny)
}

func (h *Handler) cmdLock(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageChannels) {
		ctx.replyEphemeral("You need the Manage Channels permission.")
		return
	}
	if err := setChannelLock(ctx.s, ctx.guildID, ctx.channelID, true); err != nil {
		logger.Warningf("Error locking channel %s: %v", ctx.channelID, err)
		ctx.replyEphemeral("Could not lock this channel; check my permissions.")
		return
	}
	ctx.replyEmbed(actionEmbed("Channel locked", "Members can no longer send messages here.", colorWarning))
}

func (h *Handler) cmdUnlock(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageChannels) {
		ctx.replyEphemeral("You need the Manage Channels permission.")
		return
	}
	if err := setChannelLock(ctx.s, ctx.guildID, ctx.channelID, false); err != nil {
		logger.Warningf("Error unlocking channel %s: %v", ctx.channelID, err)
		ctx.replyEphemeral("Could not unlock this channel; check my permissions.")
		return
	}
	ctx.replyEmbed(actionEmbed("Channel unlocked", "Members can send messages here again.", colorSuccess))
}

func (h *Handler) cmdPrefix(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageServer) {
		ctx.replyEphemeral("You need the Manage Server permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.reply(fmt.Sprintf("The command prefix here is `%s`", service.Prefix(ctx.guildID)))
		return
	}
	if len(ctx.args[0]) > 8 {
		ctx.replyEphemeral("Usage: prefix <new prefix> (up to 8 characters)")
		return
	}
	service.SetPrefix(ctx.guildID, ctx.args[0])
	ctx.reply(fmt.Sprintf("Command prefix set to `%s`", ctx.args[0]))
}

func (h *Handler) cmdReviewChannel(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageServer) {
		ctx.replyEphemeral("You need the Manage Server permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: reviewchannel <channel>")
		return
	}
	channelID, err := parseChannelID(ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("That does not look like a channel mention or id.")
		return
	}
	service.SetReviewChannel(ctx.guildID, channelID)
	ctx.reply(fmt.Sprintf("Moderation reports will be mirrored to <#%s>", channelID))
}
