package service

import (
	"context"

	"discord-warden/internal/config"
	"discord-warden/internal/logger"
	"discord-warden/internal/storage"
)

var (
	guildRepository *storage.GuildRepository
	tagRepository   *storage.TagRepository
	caseRepository  *storage.CaseRepository
	globalConfig    *config.Config
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitRepositories initializes the repositories backed by the enabled stores
func InitRepositories() {
	if storage.DB != nil {
		guildRepository = storage.NewGuildRepository(storage.DB)
		if err := guildRepository.MigrateTable(); err != nil {
			logger.Warningf("Error migrating GuildSettings table: %v", err)
		}
		if err := loadGuildSettings(); err != nil {
			logger.Warningf("Error loading guild settings from database: %v", err)
		}

		tagRepository = storage.NewTagRepository(storage.DB)
		if err := tagRepository.MigrateTable(); err != nil {
			logger.Warningf("Error migrating Tag table: %v", err)
		}
	}

	if db := storage.MongoDatabase(); db != nil {
		caseRepository = storage.NewCaseRepository(db)
		if err := caseRepository.EnsureIndexes(context.Background()); err != nil {
			logger.Warningf("Error ensuring case indexes: %v", err)
		}
	}
}
