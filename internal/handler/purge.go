package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/pending"
)

const (
	purgeMaxMessages = 1000
	purgeBatchSize   = 100
	// Discord refuses to bulk-delete messages older than 14 days.
	purgeAgeCeiling = 14 * 24 * time.Hour
	purgeBatchPause = time.Second
)

type purgePayload struct {
	Count    int
	ActorID  string
	PromptID string
}

func (h *Handler) cmdPurge(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageMessages) {
		ctx.replyEphemeral("You need the Manage Messages permission.")
		return
	}
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: purge <count>")
		return
	}

	count, err := strconv.Atoi(ctx.args[0])
	if err != nil || count < 1 {
		ctx.replyEphemeral("The count must be a positive number.")
		return
	}
	if count > purgeMaxMessages {
		count = purgeMaxMessages
	}

	prompt := actionEmbed(
		"Purge confirmation",
		fmt.Sprintf("Up to %d messages in this channel will be deleted (messages older than 14 days are skipped).\n\nOnly you can confirm; this prompt expires in %s.",
			count, h.cfg.Timeouts.ConfirmTTL),
		colorWarning,
	)
	promptID, err := ctx.sendPrompt(prompt, confirmButtons(pending.ActionPurge))
	if err != nil {
		logger.Warningf("Error sending purge prompt: %v", err)
		return
	}

	err = h.registry.Open(pending.Confirmation{
		PromptID:    promptID,
		RequesterID: ctx.actorID(),
		ScopeID:     ctx.channelID,
		Kind:        pending.ActionPurge,
		Payload: confirmPayload{
			GuildID:   ctx.guildID,
			ChannelID: ctx.channelID,
			Data: purgePayload{
				Count:    count,
				ActorID:  ctx.actorID(),
				PromptID: promptID,
			},
		},
	}, h.cfg.Timeouts.ConfirmTTL)
	if err != nil {
		logger.Warningf("Error opening purge confirmation: %v", err)
	}
}

// executePurge deletes messages in batches, oldest allowed first skipped,
// pacing between batches to stay under the platform's rate limits.
func (h *Handler) executePurge(s *discordgo.Session, payload confirmPayload, conf pending.Confirmation) {
	data, ok := payload.Data.(purgePayload)
	if !ok {
		logger.Errorf("Purge confirmation %s carried wrong payload", conf.PromptID)
		return
	}

	cutoff := time.Now().Add(-purgeAgeCeiling)
	remaining := data.Count
	deleted := 0
	before := ""

	for remaining > 0 {
		limit := purgeBatchSize
		if remaining < limit {
			limit = remaining
		}

		messages, err := s.ChannelMessages(payload.ChannelID, limit, before, "", "")
		if err != nil {
			logger.Warningf("Error fetching messages for purge in %s: %v", payload.ChannelID, err)
			break
		}
		if len(messages) == 0 {
			break
		}
		before = messages[len(messages)-1].ID

		var deletable []string
		for _, msg := range messages {
			// Leave the confirmation prompt in place for the final report.
			if msg.ID == data.PromptID {
				continue
			}
			ts, err := discordgo.SnowflakeTimestamp(msg.ID)
			if err != nil || ts.Before(cutoff) {
				continue
			}
			deletable = append(deletable, msg.ID)
		}
		if len(deletable) == 0 {
			break
		}

		if err := s.ChannelMessagesBulkDelete(payload.ChannelID, deletable); err != nil {
			logger.Warningf("Error bulk-deleting in %s: %v", payload.ChannelID, err)
			break
		}
		deleted += len(deletable)
		remaining -= len(deletable)

		if remaining > 0 {
			time.Sleep(purgeBatchPause)
		}
	}

	report := fmt.Sprintf("Deleted %d messages.", deleted)
	if _, err := s.ChannelMessageSend(payload.ChannelID, report); err != nil {
		logger.Warningf("Error sending purge report: %v", err)
	}
}
