package handler

import (
	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/logger"
	"discord-warden/internal/pending"
)

// cmdContext unifies the prefix-command and slash-command surfaces so every
// command has exactly one handler body.
type cmdContext struct {
	h         *Handler
	s         *discordgo.Session
	guildID   string
	channelID string
	member    *discordgo.Member
	args      []string

	// interaction is nil for prefix commands. A slash interaction may be
	// responded to once; later replies become followups.
	interaction *discordgo.Interaction
	responded   bool
}

func (c *cmdContext) actorID() string {
	return c.member.User.ID
}

// hasPermission checks the actor's permission bits in the invoking channel.
func (c *cmdContext) hasPermission(required int64) bool {
	if c.interaction != nil && c.member.Permissions != 0 {
		return hasPermission(c.member.Permissions, required)
	}
	perms, err := memberPermissions(c.s, c.actorID(), c.channelID)
	if err != nil {
		logger.Warningf("Error computing permissions for %s: %v", c.actorID(), err)
		return false
	}
	return hasPermission(perms, required)
}

// reply sends a plain text response on the appropriate surface.
func (c *cmdContext) reply(content string) {
	c.respond(&discordgo.MessageSend{Content: content}, false)
}

// replyEmbed sends an embed response on the appropriate surface.
func (c *cmdContext) replyEmbed(embed *discordgo.MessageEmbed) {
	c.respond(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}, false)
}

// replyEphemeral sends a response only the actor sees where the surface
// supports it; prefix commands fall back to a normal reply.
func (c *cmdContext) replyEphemeral(content string) {
	c.respond(&discordgo.MessageSend{Content: content}, true)
}

func (c *cmdContext) respond(msg *discordgo.MessageSend, ephemeral bool) {
	if c.interaction == nil {
		if _, err := c.s.ChannelMessageSendComplex(c.channelID, msg); err != nil {
			logger.Warningf("Error sending reply in channel %s: %v", c.channelID, err)
		}
		return
	}

	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	if !c.responded {
		err := c.s.InteractionRespond(c.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    msg.Content,
				Embeds:     msg.Embeds,
				Components: msg.Components,
				Flags:      flags,
			},
		})
		if err != nil {
			logger.Warningf("Error responding to interaction: %v", err)
			return
		}
		c.responded = true
		return
	}

	_, err := c.s.FollowupMessageCreate(c.interaction, true, &discordgo.WebhookParams{
		Content:    msg.Content,
		Embeds:     msg.Embeds,
		Components: msg.Components,
		Flags:      flags,
	})
	if err != nil {
		logger.Warningf("Error sending interaction followup: %v", err)
	}
}

// sendPrompt renders a confirmation prompt with its buttons and returns the
// prompt message id, which keys the registry entry.
func (c *cmdContext) sendPrompt(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	if c.interaction == nil {
		msg, err := c.s.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err != nil {
			return "", err
		}
		return msg.ID, nil
	}

	err := c.s.InteractionRespond(c.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		return "", err
	}
	c.responded = true

	msg, err := c.s.InteractionResponse(c.interaction)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// confirmButtons builds the proceed/cancel row for a confirmation prompt.
func confirmButtons(kind pending.ActionKind) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Proceed",
					Style:    discordgo.DangerButton,
					CustomID: encodeConfirm(kind, true),
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: encodeConfirm(kind, false),
				},
			},
		},
	}
}
