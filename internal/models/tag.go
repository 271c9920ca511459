package models

import "time"

// Tag is a guild-scoped named snippet. The (GuildID, Name) pair is unique;
// creating a duplicate surfaces the store's duplicate-key error kind.
type Tag struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GuildID   string `gorm:"index:idx_guild_tag,unique;size:32"`
	Name      string `gorm:"index:idx_guild_tag,unique;size:64"`
	Content   string `gorm:"type:text"`
	CreatorID string `gorm:"size:32"`
}
