package repository

import (
	"context"
	"time"

	"assessment-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindActiveByTier returns active questions at one tier, excluding the given
// ids, newest first. limit <= 0 means no limit.
func (r *QuestionRepository) FindActiveByTier(ctx context.Context, tier models.Tier, excludeIDs []string, limit int) ([]models.Question, error) {
	filter := bson.M{
		"active":     true,
		"difficulty": tier,
	}
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) List(ctx context.Context, tier models.Tier, tag string) ([]models.Question, error) {
	filter := bson.M{"active": true}
	if tier != "" {
		filter["difficulty"] = tier
	}
	if tag != "" {
		filter["tag"] = tag
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	question.Active = true
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) error {
	docs := make([]interface{}, 0, len(questions))
	now := time.Now()
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		if questions[i].CreatedAt.IsZero() {
			questions[i].CreatedAt = now
		}
		questions[i].Active = true
		docs = append(docs, questions[i])
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// Deactivate soft-deletes: the question stays for history but stops being
// served.
func (r *QuestionRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	return err
}

// IncrementAttempt bumps the attempt counters and recomputes the success
// rate in a single atomic pipeline update.
func (r *QuestionRepository) IncrementAttempt(ctx context.Context, id string, correct bool) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}
	update := bson.A{
		bson.M{"$set": bson.M{
			"total_attempts":   bson.M{"$add": bson.A{"$total_attempts", 1}},
			"correct_attempts": bson.M{"$add": bson.A{"$correct_attempts", correctInc}},
		}},
		bson.M{"$set": bson.M{
			"success_rate": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$total_attempts", 0}},
				bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{"$correct_attempts", "$total_attempts"}},
					100,
				}},
				0,
			}},
		}},
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *QuestionRepository) DistinctTags(ctx context.Context) ([]string, error) {
	values, err := r.Col.Distinct(ctx, "tag", bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if tag, ok := v.(string); ok && tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}
