package selection

import (
	"context"
	"errors"
	"testing"

	"assessment-service/internal/models"
)

type stubStore struct {
	questions    []models.Question
	incremented  []string
	incrementErr error
}

func (s *stubStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	for i := range s.questions {
		if s.questions[i].ID == id {
			q := s.questions[i]
			return &q, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubStore) FindActiveByTier(_ context.Context, tier models.Tier, excludeIDs []string, limit int) ([]models.Question, error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.Question
	for _, q := range s.questions {
		if !q.Active || q.Difficulty != tier || excluded[q.ID] {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubStore) IncrementAttempt(_ context.Context, id string, _ bool) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.incremented = append(s.incremented, id)
	return nil
}

func activeQuestion(id string, tier models.Tier) models.Question {
	return models.Question{ID: id, Difficulty: tier, Active: true}
}

func TestPickNextExcludes(t *testing.T) {
	store := &stubStore{questions: []models.Question{
		activeQuestion("q1", models.TierEasy),
		activeQuestion("q2", models.TierEasy),
	}}
	bank := NewBank(store)

	q, err := bank.PickNext(context.Background(), models.TierEasy, []string{"q1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.ID != "q2" {
		t.Errorf("Expected q2, got %s", q.ID)
	}
}

func TestPickNextExhausted(t *testing.T) {
	store := &stubStore{questions: []models.Question{
		activeQuestion("q1", models.TierEasy),
	}}
	bank := NewBank(store)

	_, err := bank.PickNext(context.Background(), models.TierEasy, []string{"q1"})
	if !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Fatalf("Expected ErrNoQuestionsAvailable, got %v", err)
	}
}

func TestPickNextSkipsInactive(t *testing.T) {
	inactive := activeQuestion("q1", models.TierEasy)
	inactive.Active = false
	store := &stubStore{questions: []models.Question{inactive}}
	bank := NewBank(store)

	_, err := bank.PickNext(context.Background(), models.TierEasy, nil)
	if !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Fatalf("Expected ErrNoQuestionsAvailable for an inactive-only pool, got %v", err)
	}
}

func TestPickBlockShortPool(t *testing.T) {
	store := &stubStore{questions: []models.Question{
		activeQuestion("q1", models.TierModerate),
		activeQuestion("q2", models.TierModerate),
	}}
	bank := NewBank(store)

	_, err := bank.PickBlock(context.Background(), models.TierModerate, 10, nil)
	var insufficient *InsufficientQuestionsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientQuestionsError, got %v", err)
	}
	if insufficient.Found != 2 || insufficient.Needed != 10 || insufficient.Tier != models.TierModerate {
		t.Errorf("Unexpected error detail: %+v", insufficient)
	}
}

func TestRecordOutcomeSwallowsFailure(t *testing.T) {
	store := &stubStore{incrementErr: errors.New("write failed")}
	bank := NewBank(store)

	// Best-effort by contract: must not panic and must not surface the error.
	bank.RecordOutcome(context.Background(), "q1", true)
}
