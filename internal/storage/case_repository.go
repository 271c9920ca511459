package storage

import (
	"context"
	"fmt"
	"time"

	"discord-warden/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CaseRepository handles document-store operations for case records.
type CaseRepository struct {
	cases    *mongo.Collection
	counters *mongo.Collection
}

// NewCaseRepository creates a new CaseRepository
func NewCaseRepository(db *mongo.Database) *CaseRepository {
	return &CaseRepository{
		cases:    db.Collection("cases"),
		counters: db.Collection("case_counters"),
	}
}

// EnsureIndexes creates the unique (guild_id, case_id) index.
func (r *CaseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.cases.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "case_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "case_id", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create case indexes: %w", err)
	}
	return nil
}

// NextCaseID atomically assigns the next per-guild case number.
func (r *CaseRepository) NextCaseID(ctx context.Context, guildID string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": guildID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate case id: %w", err)
	}
	return counter.Seq, nil
}

// Insert stores a case record, assigning its case id and creation time.
func (r *CaseRepository) Insert(ctx context.Context, rec *models.CaseRecord) error {
	caseID, err := r.NextCaseID(ctx, rec.GuildID)
	if err != nil {
		return err
	}
	rec.CaseID = caseID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if _, err := r.cases.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert case record: %w", err)
	}
	return nil
}

// ListPage fetches one page of a user's cases, newest case id first.
func (r *CaseRepository) ListPage(ctx context.Context, guildID, userID string, page, pageSize int) ([]models.CaseRecord, error) {
	if page < 1 {
		page = 1
	}
	filter := bson.M{"guild_id": guildID, "user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "case_id", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.cases.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query case page: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.CaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode case page: %w", err)
	}
	return records, nil
}

// Counts computes the total and the 24h/7d recency counts. The three reads
// are independent; a benign race across them is acceptable for a display.
func (r *CaseRepository) Counts(ctx context.Context, guildID, userID string) (models.CaseSummary, error) {
	base := bson.M{"guild_id": guildID, "user_id": userID}

	total, err := r.cases.CountDocuments(ctx, base)
	if err != nil {
		return models.CaseSummary{}, fmt.Errorf("failed to count cases: %w", err)
	}

	now := time.Now()
	last24, err := r.cases.CountDocuments(ctx, bson.M{
		"guild_id": guildID, "user_id": userID,
		"created_at": bson.M{"$gte": now.Add(-24 * time.Hour)},
	})
	if err != nil {
		return models.CaseSummary{}, fmt.Errorf("failed to count recent cases: %w", err)
	}

	last7d, err := r.cases.CountDocuments(ctx, bson.M{
		"guild_id": guildID, "user_id": userID,
		"created_at": bson.M{"$gte": now.Add(-7 * 24 * time.Hour)},
	})
	if err != nil {
		return models.CaseSummary{}, fmt.Errorf("failed to count weekly cases: %w", err)
	}

	return models.CaseSummary{Total: total, Last24: last24, Last7d: last7d}, nil
}

// Count returns only the total number of cases for (guild, user).
func (r *CaseRepository) Count(ctx context.Context, guildID, userID string) (int64, error) {
	return r.cases.CountDocuments(ctx, bson.M{"guild_id": guildID, "user_id": userID})
}

// DeleteAll removes every case record for (guild, user) and reports how many.
func (r *CaseRepository) DeleteAll(ctx context.Context, guildID, userID string) (int64, error) {
	result, err := r.cases.DeleteMany(ctx, bson.M{"guild_id": guildID, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete case records: %w", err)
	}
	return result.DeletedCount, nil
}
