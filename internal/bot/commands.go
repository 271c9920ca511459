package bot

import "github.com/bwmarrin/discordgo"

var purgeMin = float64(1)

func userOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "The target user",
		Required:    required,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Why the action is taken",
	}
}

// commandDefinitions is the full application command set, mirrored by the
// prefix-command dispatch.
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ban",
			Description: "Ban a user from the server",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:        "unban",
			Description: "Lift a user's ban",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:        "kick",
			Description: "Kick a user from the server",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:        "tempban",
			Description: "Ban a user for a limited time",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long, e.g. 30m, 2h, 7d",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:        "mute",
			Description: "Time a user out",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long, e.g. 30m, 2h, 7d",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:        "unmute",
			Description: "Lift a user's timeout",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:        "lock",
			Description: "Stop @everyone from sending messages in this channel",
		},
		{
			Name:        "unlock",
			Description: "Let @everyone send messages in this channel again",
		},
		{
			Name:        "masskick",
			Description: "Kick every holder of a role, after confirmation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Every holder is kicked",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:        "massban",
			Description: "Ban every holder of a role, after confirmation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Every holder is banned",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:        "nuke",
			Description: "Recreate this channel empty, after confirmation",
		},
		{
			Name:        "purge",
			Description: "Bulk-delete recent messages, after confirmation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "How many messages, up to 1000",
					Required:    true,
					MinValue:    &purgeMin,
				},
			},
		},
		{
			Name:        "notify",
			Description: "DM a user, a role's holders, or everyone",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "target",
					Description: "A user mention, a role mention, or all",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What to send",
					Required:    true,
				},
			},
		},
		{
			Name:        "cases",
			Description: "Browse a user's moderation cases",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
		},
		{
			Name:        "casesreset",
			Description: "Delete all of a user's cases, after confirmation",
			Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
		},
		{
			Name:        "tag",
			Description: "Stored text snippets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Send a tag's content",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "The tag name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a tag",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "The tag name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "What the tag sends",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a tag",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "The tag name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's tags",
				},
			},
		},
		{
			Name:        "calc",
			Description: "Evaluate an arithmetic expression",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "expression",
					Description: "e.g. sqrt(2) * 10",
					Required:    true,
				},
			},
		},
		{
			Name:        "prefix",
			Description: "Show or change this server's command prefix",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prefix",
					Description: "The new prefix",
				},
			},
		},
		{
			Name:        "reviewchannel",
			Description: "Set the channel that mirrors moderation actions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Where action embeds are mirrored",
					Required:    true,
				},
			},
		},
	}
}
