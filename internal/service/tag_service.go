package service

import (
	"errors"

	"discord-warden/internal/models"
)

// ErrTagStoreDisabled is returned when the relational store is not configured.
var ErrTagStoreDisabled = errors.New("tag store is not configured")

func CreateTag(tag *models.Tag) error {
	if tagRepository == nil {
		return ErrTagStoreDisabled
	}
	return tagRepository.Create(tag)
}

func GetTag(guildID, name string) (*models.Tag, error) {
	if tagRepository == nil {
		return nil, ErrTagStoreDisabled
	}
	return tagRepository.Get(guildID, name)
}

func DeleteTag(guildID, name string) (int64, error) {
	if tagRepository == nil {
		return 0, ErrTagStoreDisabled
	}
	return tagRepository.Delete(guildID, name)
}

func ListTags(guildID string) ([]string, error) {
	if tagRepository == nil {
		return nil, ErrTagStoreDisabled
	}
	return tagRepository.List(guildID)
}
