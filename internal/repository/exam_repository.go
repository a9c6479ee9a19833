package repository

import (
	"context"
	"log"

	"assessment-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamRepository struct {
	Col *mongo.Collection
}

func NewExamRepository(db *mongo.Database) *ExamRepository {
	r := &ExamRepository{Col: db.Collection("exam_sessions")}
	r.ensureIndexes()
	return r
}

// ensureIndexes creates the partial unique index that backs the at-most-one
// active exam per user rule at the storage level. The read-then-create check
// in the service is best-effort; this closes the race.
func (r *ExamRepository) ensureIndexes() {
	ctx := context.Background()
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(models.ExamActive)}),
	})
	if err != nil {
		log.Printf("exam_sessions index creation failed: %v", err)
	}
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.AdaptiveExamSession, error) {
	var session models.AdaptiveExamSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ExamRepository) Create(ctx context.Context, session *models.AdaptiveExamSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *ExamRepository) Replace(ctx context.Context, session *models.AdaptiveExamSession) error {
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *ExamRepository) FindActiveByUser(ctx context.Context, userID string) (*models.AdaptiveExamSession, error) {
	var session models.AdaptiveExamSession
	err := r.Col.FindOne(ctx, bson.M{
		"user_id": userID,
		"status":  models.ExamActive,
	}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// LatestCompletedByUser returns the most recently finished completed exam,
// used to seed the next exam's initial ability.
func (r *ExamRepository) LatestCompletedByUser(ctx context.Context, userID string) (*models.AdaptiveExamSession, error) {
	var session models.AdaptiveExamSession
	err := r.Col.FindOne(ctx, bson.M{
		"user_id": userID,
		"status":  models.ExamCompleted,
	}, options.FindOne().SetSort(bson.D{{Key: "end_time", Value: -1}})).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ExamRepository) CountCompletedByUser(ctx context.Context, userID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  models.ExamCompleted,
	})
}

func (r *ExamRepository) ListByUser(ctx context.Context, userID string) ([]models.AdaptiveExamSession, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.AdaptiveExamSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
