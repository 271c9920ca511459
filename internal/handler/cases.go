package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/models"
	"discord-warden/internal/pending"
	"discord-warden/internal/service"
)

type casesResetPayload struct {
	UserID  string
	ActorID string
}

func (h *Handler) cmdCases(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionKickMembers) {
		ctx.replyEphemeral("You need the Kick Members permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: cases <user>")
		return
	}

	userID, err := parseUserID(ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("That doesn't look like a user.")
		return
	}

	storeCtx, cancel := contextWithStoreTimeout()
	defer cancel()
	records, summary, err := service.CasePage(storeCtx, ctx.guildID, userID, 1)
	if err != nil {
		logger.Warningf("Error loading cases for %s/%s: %v", ctx.guildID, userID, err)
		ctx.replyEphemeral("The case store is unavailable right now.")
		return
	}

	embed := casePageEmbed(userID, records, summary, 1)
	viewID, err := ctx.sendPrompt(embed, casePageButtons(userID, 1, summary.Total))
	if err != nil {
		logger.Warningf("Error sending case viewer: %v", err)
		return
	}
	h.views.Touch(viewID, userID)
}

// turnCasePage honors a prev/next acknowledgment on a live case viewer. The
// target page is recomputed against a fresh count so a viewer left open while
// cases are added or reset never renders out of range.
func (h *Handler) turnCasePage(s *discordgo.Session, i *discordgo.InteractionCreate, corr Correlation) {
	if !h.views.IsLive(i.Message.ID) {
		respondEphemeral(s, i, "This case viewer has expired; run the command again.")
		return
	}

	page := corr.Page - 1
	if corr.Forward {
		page = corr.Page + 1
	}

	storeCtx, cancel := contextWithStoreTimeout()
	defer cancel()

	total, err := service.CaseCount(storeCtx, i.GuildID, corr.SubjectID)
	if err != nil {
		logger.Warningf("Error counting cases for %s/%s: %v", i.GuildID, corr.SubjectID, err)
		respondEphemeral(s, i, "The case store is unavailable right now.")
		return
	}
	page = pending.ClampPage(page, total, service.CasePageSize)

	records, summary, err := service.CasePage(storeCtx, i.GuildID, corr.SubjectID, page)
	if err != nil {
		logger.Warningf("Error loading case page for %s/%s: %v", i.GuildID, corr.SubjectID, err)
		respondEphemeral(s, i, "The case store is unavailable right now.")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{casePageEmbed(corr.SubjectID, records, summary, page)},
			Components: casePageButtons(corr.SubjectID, page, summary.Total),
		},
	})
	if err != nil {
		logger.Warningf("Error updating case viewer: %v", err)
		return
	}
	h.views.Touch(i.Message.ID, corr.SubjectID)
}

func casePageEmbed(userID string, records []models.CaseRecord, summary models.CaseSummary, page int) *discordgo.MessageEmbed {
	var body strings.Builder
	if len(records) == 0 {
		body.WriteString("No cases on this page.")
	}
	for _, rec := range records {
		fmt.Fprintf(&body, "**Case #%d** · %s · <t:%d:R>\n", rec.CaseID, rec.Type, rec.CreatedAt.Unix())
		fmt.Fprintf(&body, "Moderator <@%s>", rec.ModeratorID)
		if rec.Duration != "" {
			fmt.Fprintf(&body, " · %s", rec.Duration)
		}
		fmt.Fprintf(&body, "\n%s\n\n", rec.Reason)
	}

	embed := actionEmbed(
		fmt.Sprintf("Cases for user %s", userID),
		body.String(),
		colorInfo,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Total", Value: fmt.Sprintf("%d", summary.Total), Inline: true},
		{Name: "Last 24h", Value: fmt.Sprintf("%d", summary.Last24), Inline: true},
		{Name: "Last 7d", Value: fmt.Sprintf("%d", summary.Last7d), Inline: true},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d", page, pending.TotalPages(summary.Total, service.CasePageSize)),
	}
	return embed
}

func casePageButtons(userID string, page int, total int64) []discordgo.MessageComponent {
	last := pending.TotalPages(total, service.CasePageSize)
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Prev",
					Style:    discordgo.SecondaryButton,
					CustomID: encodeCasesPage(userID, page, false),
					Disabled: page <= 1,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: encodeCasesPage(userID, page, true),
					Disabled: page >= last,
				},
			},
		},
	}
}

func (h *Handler) cmdCasesReset(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionAdministrator) {
		ctx.replyEphemeral("You need the Administrator permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: casesreset <user>")
		return
	}

	userID, err := parseUserID(ctx.args[0])
	if err != nil {
		ctx.replyEphemeral("That doesn't look like a user.")
		return
	}

	storeCtx, cancel := contextWithStoreTimeout()
	defer cancel()
	count, err := service.CaseCount(storeCtx, ctx.guildID, userID)
	if err != nil {
		logger.Warningf("Error counting cases for %s/%s: %v", ctx.guildID, userID, err)
		ctx.replyEphemeral("The case store is unavailable right now.")
		return
	}
	if count == 0 {
		ctx.reply(fmt.Sprintf("<@%s> has no cases to reset.", userID))
		return
	}

	prompt := actionEmbed(
		"Case reset confirmation",
		fmt.Sprintf("All %d cases recorded for <@%s> will be deleted permanently.\n\nOnly you can confirm; this prompt expires in %s.",
			count, userID, h.cfg.Timeouts.ConfirmTTL),
		colorWarning,
	)
	promptID, err := ctx.sendPrompt(prompt, confirmButtons(pending.ActionCasesReset))
	if err != nil {
		logger.Warningf("Error sending case reset prompt: %v", err)
		return
	}

	err = h.registry.Open(pending.Confirmation{
		PromptID:    promptID,
		RequesterID: ctx.actorID(),
		ScopeID:     userID,
		Kind:        pending.ActionCasesReset,
		Payload: confirmPayload{
			GuildID:   ctx.guildID,
			ChannelID: ctx.channelID,
			Data:      casesResetPayload{UserID: userID, ActorID: ctx.actorID()},
		},
	}, h.cfg.Timeouts.ConfirmTTL)
	if err != nil {
		logger.Warningf("Error opening case reset confirmation: %v", err)
	}
}

func (h *Handler) executeCasesReset(s *discordgo.Session, payload confirmPayload, conf pending.Confirmation) {
	data, ok := payload.Data.(casesResetPayload)
	if !ok {
		logger.Errorf("Case reset confirmation %s carried wrong payload", conf.PromptID)
		return
	}

	storeCtx, cancel := contextWithStoreTimeout()
	defer cancel()
	deleted, err := service.ResetCases(storeCtx, payload.GuildID, data.UserID)
	if err != nil {
		logger.Warningf("Error resetting cases for %s/%s: %v", payload.GuildID, data.UserID, err)
		if _, sendErr := s.ChannelMessageSend(payload.ChannelID, "The case reset failed; the store is unavailable."); sendErr != nil {
			logger.Warningf("Error reporting case reset failure: %v", sendErr)
		}
		return
	}

	report := fmt.Sprintf("Deleted %d cases for <@%s>.", deleted, data.UserID)
	if _, err := s.ChannelMessageSend(payload.ChannelID, report); err != nil {
		logger.Warningf("Error sending case reset report: %v", err)
	}
}
