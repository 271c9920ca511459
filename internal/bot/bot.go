package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-warden/internal/config"
	"discord-warden/internal/logger"
)

// Service owns the gateway session lifecycle.
type Service struct {
	Session *discordgo.Session
}

// Initialize builds the session with the intents the command surfaces need.
// Guild members intent is privileged and must be enabled in the developer
// portal, the bulk commands walk the member list through it.
func Initialize(cfg *config.Config) (*Service, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	session, err := discordgo.New("Bot " + cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	return &Service{Session: session}, nil
}

// Start opens the gateway connection.
func (s *Service) Start() error {
	if err := s.Session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (s *Service) Stop() {
	if err := s.Session.Close(); err != nil {
		logger.Warningf("Error closing gateway connection: %v", err)
	}
}

// RegisterCommands overwrites the application command set. With a command
// guild configured the commands register there and appear immediately, which
// is what you want while developing; globally they can take up to an hour.
func (s *Service) RegisterCommands(cfg *config.Config) error {
	appID := cfg.Bot.ApplicationID
	if appID == "" && s.Session.State.User != nil {
		appID = s.Session.State.User.ID
	}
	if appID == "" {
		return fmt.Errorf("application id is required to register commands")
	}

	registered, err := s.Session.ApplicationCommandBulkOverwrite(appID, cfg.Bot.CommandGuildID, commandDefinitions())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	logger.Infof("Registered %d application commands", len(registered))
	return nil
}
