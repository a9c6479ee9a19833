package service

import (
	"context"

	"assessment-service/internal/models"
	"assessment-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) ListQuestions(ctx context.Context, tier models.Tier, tag string) ([]models.Question, error) {
	return s.Repo.List(ctx, tier, tag)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	question.RecomputeSuccessRate()
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) CreateQuestions(ctx context.Context, questions []models.Question) error {
	return s.Repo.CreateMany(ctx, questions)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update map[string]interface{}) error {
	return s.Repo.Update(ctx, id, bson.M(update))
}

// DeactivateQuestion soft-deletes: attempt history stays intact.
func (s *QuestionService) DeactivateQuestion(ctx context.Context, id string) error {
	return s.Repo.Deactivate(ctx, id)
}

func (s *QuestionService) ListTags(ctx context.Context) ([]string, error) {
	return s.Repo.DistinctTags(ctx)
}
