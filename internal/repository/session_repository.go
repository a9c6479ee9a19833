package repository

import (
	"context"

	"assessment-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("practice_sessions")}
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.PracticeSession, error) {
	var session models.PracticeSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *models.PracticeSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

// Replace persists the whole session document. Session mutations are
// all-or-nothing: the state machine builds the next state in memory and
// writes it in one shot.
func (r *SessionRepository) Replace(ctx context.Context, session *models.PracticeSession) error {
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	return err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, mode models.SessionMode) ([]models.PracticeSession, error) {
	filter := bson.M{"user_id": userID}
	if mode != "" {
		filter["mode"] = mode
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.PracticeSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
