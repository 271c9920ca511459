package service

import (
	"context"
	"errors"
	"time"

	"discord-warden/internal/models"
)

// CasePageSize is the number of cases rendered per page.
const CasePageSize = 5

// ErrCaseStoreDisabled is returned when the document store is not configured.
var ErrCaseStoreDisabled = errors.New("case store is not configured")

// CreateCase records a moderation case and returns it with its assigned id.
func CreateCase(ctx context.Context, rec *models.CaseRecord) (*models.CaseRecord, error) {
	if caseRepository == nil {
		return nil, ErrCaseStoreDisabled
	}
	rec.CreatedAt = time.Now()
	if err := caseRepository.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CasePage fetches one page of cases plus the summary counts for the header.
func CasePage(ctx context.Context, guildID, userID string, page int) ([]models.CaseRecord, models.CaseSummary, error) {
	if caseRepository == nil {
		return nil, models.CaseSummary{}, ErrCaseStoreDisabled
	}

	summary, err := caseRepository.Counts(ctx, guildID, userID)
	if err != nil {
		return nil, models.CaseSummary{}, err
	}

	records, err := caseRepository.ListPage(ctx, guildID, userID, page, CasePageSize)
	if err != nil {
		return nil, models.CaseSummary{}, err
	}
	return records, summary, nil
}

// CaseCount returns the number of cases recorded for (guild, user).
func CaseCount(ctx context.Context, guildID, userID string) (int64, error) {
	if caseRepository == nil {
		return 0, ErrCaseStoreDisabled
	}
	return caseRepository.Count(ctx, guildID, userID)
}

// ResetCases deletes every case for (guild, user), reporting the count.
func ResetCases(ctx context.Context, guildID, userID string) (int64, error) {
	if caseRepository == nil {
		return 0, ErrCaseStoreDisabled
	}
	return caseRepository.DeleteAll(ctx, guildID, userID)
}
