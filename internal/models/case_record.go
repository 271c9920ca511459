package models

import (
	"time"
)

// CaseType enumerates the moderation action a case records.
type CaseType string

const (
	CaseWarn   CaseType = "WARN"
	CaseMute   CaseType = "MUTE"
	CaseKick   CaseType = "KICK"
	CaseBan    CaseType = "BAN"
	CaseUnmute CaseType = "UNMUTE"
	CaseUnban  CaseType = "UNBAN"
	CaseNote   CaseType = "NOTE"
)

// CaseRecord is one moderation case. CaseID is assigned monotonically per
// guild by the store; (GuildID, CaseID) is unique.
type CaseRecord struct {
	CaseID      int64      `bson:"case_id"`
	GuildID     string     `bson:"guild_id"`
	UserID      string     `bson:"user_id"`
	ModeratorID string     `bson:"moderator_id"`
	Type        CaseType   `bson:"type"`
	Reason      string     `bson:"reason"`
	Duration    string     `bson:"duration,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	ExpiresAt   *time.Time `bson:"expires_at,omitempty"`
}

// CaseSummary carries the aggregate counts shown alongside a case page.
type CaseSummary struct {
	Total  int64
	Last24 int64
	Last7d int64
}
