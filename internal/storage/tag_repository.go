package storage

import (
	"errors"

	"discord-warden/internal/models"

	"gorm.io/gorm"
)

// TagRepository handles database operations for Tags
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// MigrateTable ensures the Tag table exists with the right schema
func (r *TagRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Tag{})
}

// Create inserts a tag. A name collision within the guild surfaces as
// gorm.ErrDuplicatedKey.
func (r *TagRepository) Create(tag *models.Tag) error {
	return withRetry(func() error {
		return r.db.Create(tag).Error
	})
}

// Get retrieves a tag by guild and name; (nil, nil) when absent.
func (r *TagRepository) Get(guildID, name string) (*models.Tag, error) {
	var tag models.Tag
	err := withRetry(func() error {
		return r.db.Where("guild_id = ? AND name = ?", guildID, name).First(&tag).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag by guild and name, reporting how many rows went away.
func (r *TagRepository) Delete(guildID, name string) (int64, error) {
	var deleted int64
	err := withRetry(func() error {
		result := r.db.Where("guild_id = ? AND name = ?", guildID, name).Delete(&models.Tag{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// List returns every tag name registered for a guild.
func (r *TagRepository) List(guildID string) ([]string, error) {
	var names []string
	err := withRetry(func() error {
		return r.db.Model(&models.Tag{}).Where("guild_id = ?", guildID).Order("name").Pluck("name", &names).Error
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
