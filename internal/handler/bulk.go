package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/models"
	"discord-warden/internal/pending"
	"discord-warden/internal/service"
)

// bulkTarget is one member of a bulk action's target set. Exempt targets
// failed the authority pre-filter: they are counted as failed, not attempted.
type bulkTarget struct {
	ID     string
	Exempt bool
}

// bulkTally is the single report produced after a full bulk pass.
// successful + failed always equals the size of the target set.
type bulkTally struct {
	Successful int
	Failed     int
	DMFailed   int
}

// executeBulk applies notify-then-punish to every target sequentially.
// Notification failures are tallied but never block the punitive call;
// punitive failures are tallied and never abort the remaining iteration.
func executeBulk(targets []bulkTarget, notify, punish func(id string) error) bulkTally {
	var tally bulkTally
	for _, target := range targets {
		if target.Exempt {
			tally.Failed++
			continue
		}
		if notify != nil {
			if err := notify(target.ID); err != nil {
				tally.DMFailed++
			}
		}
		if err := punish(target.ID); err != nil {
			tally.Failed++
			continue
		}
		tally.Successful++
	}
	return tally
}

// massPayload carries the parameters of a confirmed mass punishment.
type massPayload struct {
	RoleID   string
	RoleName string
	Reason   string
	ActorID  string
	Ban      bool
}

// collectRoleTargets walks the full member list and returns every holder of
// the role, excluding the bot itself, with the authority pre-filter applied.
func (h *Handler) collectRoleTargets(s *discordgo.Session, guildID, roleID, actorID string) ([]bulkTarget, error) {
	roles, err := guildRolesByID(s, guildID)
	if err != nil {
		return nil, err
	}
	actor, err := fetchMember(s, guildID, actorID)
	if err != nil {
		return nil, err
	}
	ownerID := guildOwnerID(s, guildID)

	var targets []bulkTarget
	after := ""
	for {
		members, err := s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			break
		}
		for _, member := range members {
			after = member.User.ID
			if member.User.ID == h.botID {
				continue
			}
			holds := false
			for _, r := range member.Roles {
				if r == roleID {
					holds = true
					break
				}
			}
			if !holds {
				continue
			}
			targets = append(targets, bulkTarget{
				ID:     member.User.ID,
				Exempt: !outranks(ownerID, actor, member, roles),
			})
		}
		if len(members) < 1000 {
			break
		}
	}
	return targets, nil
}

// cmdMassPunish opens the confirmation prompt for masskick/massban.
func (h *Handler) cmdMassPunish(ctx *cmdContext, ban bool) {
	required := int64(discordgo.PermissionKickMembers)
	verb := "kick"
	kind := pending.ActionMassKick
	if ban {
		required = discordgo.PermissionBanMembers
		verb = "ban"
		kind = pending.ActionMassBan
	}

	if !ctx.hasPermission(required) {
		ctx.replyEphemeral(fmt.Sprintf("You need the %s Members permission.", titleVerb(verb)))
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral(fmt.Sprintf("Usage: mass%s <role> [reason]", verb))
		return
	}

	roleID, err := parseRoleID(ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("That does not look like a role mention or id.")
		return
	}
	roles, err := guildRolesByID(ctx.s, ctx.guildID)
	if err != nil {
		logger.Warningf("Error loading roles for guild %s: %v", ctx.guildID, err)
		ctx.replyEphemeral("Could not load roles, try again.")
		return
	}
	role, ok := roles[roleID]
	if !ok {
		ctx.replyEphemeral("No such role in this server.")
		return
	}
	reason := reasonFromArgs(ctx.args[1:])

	prompt := actionEmbed(
		fmt.Sprintf("Mass %s confirmation", verb),
		fmt.Sprintf("Every member holding **%s** will be %sed.\nReason: %s\n\nOnly you can confirm; this prompt expires in %s.",
			role.Name, verb, reason, h.cfg.Timeouts.ConfirmTTL),
		colorWarning,
	)
	promptID, err := ctx.sendPrompt(prompt, confirmButtons(kind))
	if err != nil {
		logger.Warningf("Error sending mass %s prompt: %v", verb, err)
		return
	}

	err = h.registry.Open(pending.Confirmation{
		PromptID:    promptID,
		RequesterID: ctx.actorID(),
		ScopeID:     roleID,
		Kind:        kind,
		Payload: confirmPayload{
			GuildID:   ctx.guildID,
			ChannelID: ctx.channelID,
			Data: massPayload{
				RoleID:   roleID,
				RoleName: role.Name,
				Reason:   reason,
				ActorID:  ctx.actorID(),
				Ban:      ban,
			},
		},
	}, h.cfg.Timeouts.ConfirmTTL)
	if err != nil {
		logger.Warningf("Error opening mass %s confirmation: %v", verb, err)
	}
}

// executeMassPunish runs a confirmed mass kick/ban and posts the tally.
func (h *Handler) executeMassPunish(s *discordgo.Session, payload confirmPayload, conf pending.Confirmation) {
	data, ok := payload.Data.(massPayload)
	if !ok {
		logger.Errorf("Mass punish confirmation %s carried wrong payload", conf.PromptID)
		return
	}
	verb := "kick"
	caseType := models.CaseKick
	if data.Ban {
		verb = "ban"
		caseType = models.CaseBan
	}

	targets, err := h.collectRoleTargets(s, payload.GuildID, data.RoleID, data.ActorID)
	if err != nil {
		logger.Warningf("Error collecting targets for mass %s: %v", verb, err)
		s.ChannelMessageSend(payload.ChannelID, "Could not collect the target members; nothing was done.")
		return
	}
	if len(targets) == 0 {
		s.ChannelMessageSend(payload.ChannelID, fmt.Sprintf("No members hold **%s**; nothing to do.", data.RoleName))
		return
	}

	name := guildName(s, payload.GuildID)
	notify := func(userID string) error {
		return sendDM(s, userID, actionEmbed(
			fmt.Sprintf("You have been %sed", verb),
			fmt.Sprintf("Server: %s\nReason: %s", name, data.Reason),
			colorAction,
		))
	}
	punish := func(userID string) error {
		if data.Ban {
			return s.GuildBanCreateWithReason(payload.GuildID, userID, data.Reason, 0)
		}
		return s.GuildMemberDeleteWithReason(payload.GuildID, userID, data.Reason)
	}

	tally := executeBulk(targets, notify, punish)

	// One case record per successful target would flood the store for large
	// roles; a single roll-up case on the role scope keeps the audit trail.
	storeCtx, cancel := contextWithStoreTimeout()
	_, err = service.CreateCase(storeCtx, &models.CaseRecord{
		GuildID:     payload.GuildID,
		UserID:      data.RoleID,
		ModeratorID: data.ActorID,
		Type:        caseType,
		Reason:      fmt.Sprintf("mass %s of role %s: %s", verb, data.RoleName, data.Reason),
	})
	cancel()
	if err != nil {
		logger.Warningf("Error recording mass %s case: %v", verb, err)
	}

	report := actionEmbed(
		fmt.Sprintf("Mass %s complete", verb),
		fmt.Sprintf("Role: **%s**\nSuccessful: %d\nFailed: %d\nDM failed: %d",
			data.RoleName, tally.Successful, tally.Failed, tally.DMFailed),
		colorInfo,
	)
	if _, err := s.ChannelMessageSendEmbed(payload.ChannelID, report); err != nil {
		logger.Warningf("Error sending mass %s report: %v", verb, err)
	}
	mirrorToReviewChannel(s, service.GetGuildSettings(payload.GuildID).ReviewChannelID, report)
}

func titleVerb(verb string) string {
	if verb == "ban" {
		return "Ban"
	}
	return "Kick"
}
