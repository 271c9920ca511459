package storage

import (
	"errors"
	"time"

	"discord-warden/internal/models"

	"gorm.io/gorm"
)

// GuildRepository handles database operations for GuildSettings
type GuildRepository struct {
	db *gorm.DB
}

// NewGuildRepository creates a new GuildRepository
func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// MigrateTable ensures the GuildSettings table exists with the right schema
func (r *GuildRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.GuildSettings{})
}

// GetSettings retrieves guild settings by guild id; (nil, nil) when absent.
func (r *GuildRepository) GetSettings(guildID string) (*models.GuildSettings, error) {
	var settings models.GuildSettings
	err := withRetry(func() error {
		return r.db.Where("guild_id = ?", guildID).First(&settings).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert creates a new settings record or updates an existing one
func (r *GuildRepository) Upsert(settings *models.GuildSettings) error {
	var existing models.GuildSettings
	err := withRetry(func() error {
		return r.db.Where("guild_id = ?", settings.GuildID).First(&existing).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings.CreatedAt = time.Now()
			settings.UpdatedAt = time.Now()
			return withRetry(func() error {
				return r.db.Create(settings).Error
			})
		}
		return err
	}

	settings.ID = existing.ID
	settings.CreatedAt = existing.CreatedAt
	settings.UpdatedAt = time.Now()

	return withRetry(func() error {
		return r.db.Save(settings).Error
	})
}

// GetAll retrieves every guild settings record
func (r *GuildRepository) GetAll() ([]*models.GuildSettings, error) {
	var all []*models.GuildSettings
	err := withRetry(func() error {
		return r.db.Find(&all).Error
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
