package service

import (
	"sync"

	"discord-warden/internal/logger"
	"discord-warden/internal/models"
)

var (
	settingsMu    sync.RWMutex
	settingsCache = make(map[string]*models.GuildSettings)
)

// loadGuildSettings warms the cache from the database at startup.
func loadGuildSettings() error {
	all, err := guildRepository.GetAll()
	if err != nil {
		return err
	}

	settingsMu.Lock()
	for _, s := range all {
		settingsCache[s.GuildID] = s
	}
	settingsMu.Unlock()

	logger.Infof("Loaded settings for %d guilds into cache", len(all))
	return nil
}

// GetGuildSettings gets settings from cache or database, falling back to
// defaults for guilds that never customized anything.
func GetGuildSettings(guildID string) *models.GuildSettings {
	settingsMu.RLock()
	cached, ok := settingsCache[guildID]
	settingsMu.RUnlock()
	if ok {
		return cached
	}

	if guildRepository != nil {
		fromDB, err := guildRepository.GetSettings(guildID)
		if err != nil {
			logger.Warningf("Error fetching guild settings: %v", err)
		} else if fromDB != nil {
			settingsMu.Lock()
			settingsCache[guildID] = fromDB
			settingsMu.Unlock()
			return fromDB
		}
	}

	settings := &models.GuildSettings{
		GuildID: guildID,
		Prefix:  globalConfig.Bot.DefaultPrefix,
	}
	settingsMu.Lock()
	settingsCache[guildID] = settings
	settingsMu.Unlock()
	return settings
}

// UpdateGuildSettings updates settings in cache and database
func UpdateGuildSettings(settings *models.GuildSettings) {
	settingsMu.Lock()
	settingsCache[settings.GuildID] = settings
	settingsMu.Unlock()

	if guildRepository != nil {
		if err := guildRepository.Upsert(settings); err != nil {
			logger.Warningf("Error saving guild settings: %v", err)
		}
	}
}

// Prefix returns the command prefix in effect for a guild.
func Prefix(guildID string) string {
	settings := GetGuildSettings(guildID)
	if settings.Prefix == "" {
		return globalConfig.Bot.DefaultPrefix
	}
	return settings.Prefix
}

// SetPrefix changes the guild command prefix.
func SetPrefix(guildID, prefix string) {
	settings := GetGuildSettings(guildID)
	settings.Prefix = prefix
	UpdateGuildSettings(settings)
}

// SetReviewChannel records where moderation reports are mirrored.
func SetReviewChannel(guildID, channelID string) {
	settings := GetGuildSettings(guildID)
	settings.ReviewChannelID = channelID
	UpdateGuildSettings(settings)
}
