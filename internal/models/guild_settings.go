package models

import "time"

// GuildSettings holds per-guild configuration stored in the relational store.
type GuildSettings struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GuildID         string `gorm:"uniqueIndex;size:32"`
	Prefix          string `gorm:"size:16"`
	ReviewChannelID string `gorm:"size:32"`
}
