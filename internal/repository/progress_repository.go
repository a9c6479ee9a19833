package repository

import (
	"context"

	"assessment-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("progress")}
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save upserts the whole progress document. The ledger mutates the record in
// memory first, so XP, level, streak and badges land in a single write.
func (r *ProgressRepository) Save(ctx context.Context, record *models.ProgressRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	_, err := r.Col.ReplaceOne(ctx, bson.M{"user_id": record.UserID}, record,
		options.Replace().SetUpsert(true))
	return err
}

func (r *ProgressRepository) TopByXP(ctx context.Context, limit int) ([]models.ProgressRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	cur, err := r.Col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "xp", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []models.ProgressRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
