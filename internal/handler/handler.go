package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/config"
	"discord-warden/internal/logger"
	"discord-warden/internal/pending"
	"discord-warden/internal/service"
)

// Handler owns the dispatch of prefix commands, slash commands and component
// acknowledgments, plus the ephemeral confirmation and pagination state.
type Handler struct {
	session  *discordgo.Session
	cfg      *config.Config
	registry *pending.Registry
	views    *pending.ViewCache
	botID    string
}

// confirmPayload wraps the action-specific parameters of a pending
// confirmation with enough context to execute it and to disable the prompt.
type confirmPayload struct {
	GuildID   string
	ChannelID string
	Data      interface{}
}

// New creates the handler with its process-scoped registry and view cache.
func New(session *discordgo.Session, cfg *config.Config) *Handler {
	h := &Handler{
		session: session,
		cfg:     cfg,
	}
	h.registry = pending.NewRegistry(cfg.Timeouts.SweepInterval, h.disableExpiredPrompt)
	h.views = pending.NewViewCache(cfg.Timeouts.ViewTTL, cfg.Timeouts.SweepInterval)
	return h
}

// Register attaches the gateway event handlers.
func (h *Handler) Register() {
	h.session.AddHandler(h.onReady)
	h.session.AddHandler(h.onMessageCreate)
	h.session.AddHandler(h.onInteractionCreate)
}

// Stop tears down the sweep goroutines and pending timers.
func (h *Handler) Stop() {
	h.registry.Stop()
	h.views.Stop()
}

func (h *Handler) onReady(s *discordgo.Session, r *discordgo.Ready) {
	h.botID = r.User.ID
	logger.Infof("Logged in as %s", userTag(r.User))
}

// disableExpiredPrompt is the registry expiry hook: strip the buttons off a
// prompt whose confirmation window closed. The action itself is not
// retracted, only made non-actionable.
func (h *Handler) disableExpiredPrompt(conf pending.Confirmation) {
	payload, ok := conf.Payload.(confirmPayload)
	if !ok {
		return
	}
	edit := discordgo.NewMessageEdit(payload.ChannelID, conf.PromptID)
	empty := []discordgo.MessageComponent{}
	edit.Components = &empty
	if _, err := h.session.ChannelMessageEditComplex(edit); err != nil {
		logger.Warningf("Error disabling expired prompt %s: %v", conf.PromptID, err)
	}
}

// onMessageCreate dispatches text-prefix commands.
func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	prefix := service.Prefix(m.GuildID)
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	member := m.Member
	if member == nil {
		var err error
		member, err = fetchMember(s, m.GuildID, m.Author.ID)
		if err != nil {
			logger.Warningf("Error fetching member %s: %v", m.Author.ID, err)
			return
		}
	}
	if member.User == nil {
		member.User = m.Author
	}

	ctx := &cmdContext{
		h:         h,
		s:         s,
		guildID:   m.GuildID,
		channelID: m.ChannelID,
		member:    member,
		args:      args,
	}
	h.dispatch(name, ctx)
}

// onInteractionCreate dispatches slash commands and component
// acknowledgments.
func (h *Handler) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.GuildID == "" || i.Member == nil {
			return
		}
		data := i.ApplicationCommandData()
		ctx := &cmdContext{
			h:           h,
			s:           s,
			guildID:     i.GuildID,
			channelID:   i.ChannelID,
			member:      i.Member,
			args:        optionsToArgs(s, data.Options),
			interaction: i.Interaction,
		}
		h.dispatch(data.Name, ctx)

	case discordgo.InteractionMessageComponent:
		h.onComponent(s, i)
	}
}

// dispatch routes a command by name, recovering anything a handler lets
// escape so the process never dies on a single command.
func (h *Handler) dispatch(name string, ctx *cmdContext) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic handling command %q in guild %s: %v", name, ctx.guildID, r)
			ctx.replyEphemeral("Something went wrong handling that command.")
		}
	}()

	switch name {
	case "ban":
		h.cmdBan(ctx)
	case "unban":
		h.cmdUnban(ctx)
	case "kick":
		h.cmdKick(ctx)
	case "tempban":
		h.cmdTempban(ctx)
	case "mute":
		h.cmdMute(ctx)
	case "unmute":
		h.cmdUnmute(ctx)
	case "lock":
		h.cmdLock(ctx)
	case "unlock":
		h.cmdUnlock(ctx)
	case "masskick":
		h.cmdMassPunish(ctx, false)
	case "massban":
		h.cmdMassPunish(ctx, true)
	case "nuke":
		h.cmdNuke(ctx)
	case "purge":
		h.cmdPurge(ctx)
	case "notify":
		h.cmdNotify(ctx)
	case "cases":
		h.cmdCases(ctx)
	case "casesreset":
		h.cmdCasesReset(ctx)
	case "tag":
		h.cmdTag(ctx)
	case "calc":
		h.cmdCalc(ctx)
	case "prefix":
		h.cmdPrefix(ctx)
	case "reviewchannel":
		h.cmdReviewChannel(ctx)
	}
}

// onComponent decodes the acknowledgment correlation once and routes it.
func (h *Handler) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic handling component in guild %s: %v", i.GuildID, r)
		}
	}()

	corr, err := decodeCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		// Not ours; ignore silently.
		return
	}

	switch {
	case corr.Confirm:
		h.resolveConfirmation(s, i, corr)
	case corr.CasesPage:
		h.turnCasePage(s, i, corr)
	}
}

// resolveConfirmation applies an acknowledgment to the registry and, on
// Confirmed, executes the gated bulk action.
func (h *Handler) resolveConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, corr Correlation) {
	actorID := i.Member.User.ID
	outcome, conf := h.registry.Resolve(i.Message.ID, actorID, corr.Proceed)

	switch outcome {
	case pending.Denied:
		respondEphemeral(s, i, "Only the requester may respond to this prompt.")
		return

	case pending.NotFound:
		respondEphemeral(s, i, "This confirmation has expired or was already handled.")
		return

	case pending.Cancelled:
		updatePrompt(s, i, "Action cancelled.")
		return
	}

	payload, ok := conf.Payload.(confirmPayload)
	if !ok {
		logger.Errorf("Confirmation %s carried unexpected payload type", conf.PromptID)
		respondEphemeral(s, i, "Something went wrong executing that action.")
		return
	}

	updatePrompt(s, i, "Confirmed, working...")

	switch conf.Kind {
	case pending.ActionMassKick, pending.ActionMassBan:
		h.executeMassPunish(s, payload, conf)
	case pending.ActionNuke:
		h.executeNuke(s, payload, conf)
	case pending.ActionPurge:
		h.executePurge(s, payload, conf)
	case pending.ActionCasesReset:
		h.executeCasesReset(s, payload, conf)
	default:
		logger.Errorf("Confirmed prompt %s has unknown action kind %q", conf.PromptID, conf.Kind)
	}
}

// respondEphemeral answers a component interaction with a message only the
// acting user sees.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Warningf("Error sending ephemeral response: %v", err)
	}
}

// updatePrompt rewrites the prompt message in place and strips its buttons.
func updatePrompt(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		logger.Warningf("Error updating prompt: %v", err)
	}
}

// optionsToArgs flattens slash-command options into the positional argument
// form the prefix commands use, so both surfaces share one handler body.
func optionsToArgs(s *discordgo.Session, options []*discordgo.ApplicationCommandInteractionDataOption) []string {
	var args []string
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand:
			args = append(args, opt.Name)
			args = append(args, optionsToArgs(s, opt.Options)...)
		case discordgo.ApplicationCommandOptionUser:
			args = append(args, opt.Value.(string))
		case discordgo.ApplicationCommandOptionRole:
			args = append(args, opt.Value.(string))
		case discordgo.ApplicationCommandOptionChannel:
			args = append(args, opt.Value.(string))
		case discordgo.ApplicationCommandOptionInteger:
			args = append(args, fmt.Sprintf("%d", opt.IntValue()))
		case discordgo.ApplicationCommandOptionString:
			args = append(args, strings.Fields(opt.StringValue())...)
		}
	}
	return args
}
