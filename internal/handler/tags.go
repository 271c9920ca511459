package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"discord-warden/internal/logger"
	"discord-warden/internal/models"
	"discord-warden/internal/service"
)

// cmdTag routes the tag subcommands. A bare name sends the stored content,
// which any member may do; mutations require Manage Messages.
func (h *Handler) cmdTag(ctx *cmdContext) {
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: tag <name> | tag create <name> <content> | tag delete <name> | tag list")
		return
	}

	switch strings.ToLower(ctx.args[0]) {
	case "create":
		h.tagCreate(ctx)
	case "delete":
		h.tagDelete(ctx)
	case "list":
		h.tagList(ctx)
	case "show":
		if len(ctx.args) < 2 {
			ctx.replyEphemeral("Usage: tag show <name>")
			return
		}
		h.tagSend(ctx, ctx.args[1])
	default:
		h.tagSend(ctx, ctx.args[0])
	}
}

func (h *Handler) tagCreate(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageMessages) {
		ctx.replyEphemeral("You need the Manage Messages permission.")
		return
	}
	if len(ctx.args) < 3 {
		ctx.replyEphemeral("Usage: tag create <name> <content>")
		return
	}

	name := strings.ToLower(ctx.args[1])
	content := strings.Join(ctx.args[2:], " ")

	err := service.CreateTag(&models.Tag{
		GuildID:   ctx.guildID,
		Name:      name,
		Content:   content,
		CreatorID: ctx.actorID(),
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		ctx.replyEphemeral(fmt.Sprintf("A tag named `%s` already exists.", name))
		return
	}
	if err != nil {
		logger.Warningf("Error creating tag %s/%s: %v", ctx.guildID, name, err)
		ctx.replyEphemeral("The tag store is unavailable right now.")
		return
	}
	ctx.reply(fmt.Sprintf("Tag `%s` created.", name))
}

func (h *Handler) tagDelete(ctx *cmdContext) {
	if !ctx.hasPermission(discordgo.PermissionManageMessages) {
		ctx.replyEphemeral("You need the Manage Messages permission.")
		return
	}
	if len(ctx.args) < 2 {
		ctx.replyEphemeral("Usage: tag delete <name>")
		return
	}

	name := strings.ToLower(ctx.args[1])
	rows, err := service.DeleteTag(ctx.guildID, name)
	if err != nil {
		logger.Warningf("Error deleting tag %s/%s: %v", ctx.guildID, name, err)
		ctx.replyEphemeral("The tag store is unavailable right now.")
		return
	}
	if rows == 0 {
		ctx.replyEphemeral(fmt.Sprintf("No tag named `%s` here.", name))
		return
	}
	ctx.reply(fmt.Sprintf("Tag `%s` deleted.", name))
}

func (h *Handler) tagList(ctx *cmdContext) {
	names, err := service.ListTags(ctx.guildID)
	if err != nil {
		logger.Warningf("Error listing tags for %s: %v", ctx.guildID, err)
		ctx.replyEphemeral("The tag store is unavailable right now.")
		return
	}
	if len(names) == 0 {
		ctx.reply("This server has no tags yet.")
		return
	}
	ctx.replyEmbed(actionEmbed(
		fmt.Sprintf("Tags (%d)", len(names)),
		"`"+strings.Join(names, "` `")+"`",
		colorInfo,
	))
}

func (h *Handler) tagSend(ctx *cmdContext, name string) {
	tag, err := service.GetTag(ctx.guildID, strings.ToLower(name))
	if err != nil {
		logger.Warningf("Error fetching tag %s/%s: %v", ctx.guildID, name, err)
		ctx.replyEphemeral("The tag store is unavailable right now.")
		return
	}
	if tag == nil {
		ctx.replyEphemeral(fmt.Sprintf("No tag named `%s` here.", name))
		return
	}
	ctx.reply(tag.Content)
}
