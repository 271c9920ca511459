package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/pending"
)

type nukePayload struct {
	ActorID string
}

func (h *Handler) cmdNuke(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageChannels) {
		ctx.replyEphemeral("You need the Manage Channels permission.")
		return
	}

	prompt := actionEmbed(
		"Nuke confirmation",
		fmt.Sprintf("This channel will be recreated empty: the clone keeps the configuration, every message is gone.\n\nOnly you can confirm; this prompt expires in %s.",
			h.cfg.Timeouts.ConfirmTTL),
		colorWarning,
	)
	promptID, err := ctx.sendPrompt(prompt, confirmButtons(pending.ActionNuke))
	if err != nil {
		logger.Warningf("Error sending nuke prompt: %v", err)
		return
	}

	err = h.registry.Open(pending.Confirmation{
		PromptID:    promptID,
		RequesterID: ctx.actorID(),
		ScopeID:     ctx.channelID,
		Kind:        pending.ActionNuke,
		Payload: confirmPayload{
			GuildID:   ctx.guildID,
			ChannelID: ctx.channelID,
			Data:      nukePayload{ActorID: ctx.actorID()},
		},
	}, h.cfg.Timeouts.ConfirmTTL)
	if err != nil {
		logger.Warningf("Error opening nuke confirmation: %v", err)
	}
}

// executeNuke clones the channel configuration at the same position, deletes
// the original and announces in the clone. Any failed step surfaces as a
// single error with no partial undo.
func (h *Handler) executeNuke(s *discordgo.Session, payload confirmPayload, conf pending.Confirmation) {
	fail := func(stage string, err error) {
		logger.Warningf("Nuke of %s failed at %s: %v", payload.ChannelID, stage, err)
		if _, sendErr := s.ChannelMessageSend(payload.ChannelID, "The nuke failed: "+stage+"."); sendErr != nil {
			logger.Warningf("Error reporting nuke failure: %v", sendErr)
		}
	}

	channel, err := s.Channel(payload.ChannelID)
	if err != nil {
		fail("reading the channel", err)
		return
	}

	clone, err := s.GuildChannelCreateComplex(payload.GuildID, discordgo.GuildChannelCreateData{
		Name:                 channel.Name,
		Type:                 channel.Type,
		Topic:                channel.Topic,
		NSFW:                 channel.NSFW,
		Position:             channel.Position,
		RateLimitPerUser:     channel.RateLimitPerUser,
		PermissionOverwrites: channel.PermissionOverwrites,
		ParentID:             channel.ParentID,
	})
	if err != nil {
		fail("creating the clone", err)
		return
	}

	if _, err := s.ChannelDelete(payload.ChannelID); err != nil {
		fail("deleting the original", err)
		return
	}

	data, _ := payload.Data.(nukePayload)
	announce := fmt.Sprintf("Channel nuked by <@%s>. Fresh start.", data.ActorID)
	if _, err := s.ChannelMessageSend(clone.ID, announce); err != nil {
		logger.Warningf("Error announcing nuke in %s: %v", clone.ID, err)
	}
}
