package selection

import (
	"context"
	"errors"
	"fmt"
	"log"

	"assessment-service/internal/models"
)

// ErrNoQuestionsAvailable means no active question exists at the requested
// tier outside the exclusion set.
var ErrNoQuestionsAvailable = errors.New("no questions available")

// InsufficientQuestionsError reports a block fetch that found fewer active
// questions than the block needs.
type InsufficientQuestionsError struct {
	Tier   models.Tier
	Found  int
	Needed int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions at tier %s: found %d, need %d", e.Tier, e.Found, e.Needed)
}

// QuestionStore is the storage surface the bank needs.
type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindActiveByTier(ctx context.Context, tier models.Tier, excludeIDs []string, limit int) ([]models.Question, error)
	IncrementAttempt(ctx context.Context, id string, correct bool) error
}

// Bank is the read side of the question pool plus the best-effort attempt
// counters. Session state machines consult it on every question transition.
type Bank struct {
	store QuestionStore
}

func NewBank(store QuestionStore) *Bank {
	return &Bank{store: store}
}

func (b *Bank) Get(ctx context.Context, id string) (*models.Question, error) {
	return b.store.FindByID(ctx, id)
}

// PickInitial returns one active question at the tier, most recently created
// first.
func (b *Bank) PickInitial(ctx context.Context, tier models.Tier) (*models.Question, error) {
	return b.PickNext(ctx, tier, nil)
}

// PickNext returns one active question at the tier outside the exclusion
// set. Callers decide what exhaustion means: end of session for practice, a
// hard error for sectional blocks.
func (b *Bank) PickNext(ctx context.Context, tier models.Tier, excludeIDs []string) (*models.Question, error) {
	questions, err := b.store.FindActiveByTier(ctx, tier, excludeIDs, 1)
	if err != nil {
		return nil, fmt.Errorf("question lookup failed: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	return &questions[0], nil
}

// PickBlock fetches exactly count questions at one tier for a sectional
// block, excluding ids already served in the session.
func (b *Bank) PickBlock(ctx context.Context, tier models.Tier, count int, excludeIDs []string) ([]models.Question, error) {
	questions, err := b.store.FindActiveByTier(ctx, tier, excludeIDs, count)
	if err != nil {
		return nil, fmt.Errorf("question lookup failed: %w", err)
	}
	if len(questions) < count {
		return nil, &InsufficientQuestionsError{Tier: tier, Found: len(questions), Needed: count}
	}
	return questions, nil
}

// RecordOutcome updates a question's attempt counters. Best-effort by
// policy: a failed statistics write is logged and swallowed so it can never
// block the user's session.
func (b *Bank) RecordOutcome(ctx context.Context, questionID string, correct bool) {
	if err := b.store.IncrementAttempt(ctx, questionID, correct); err != nil {
		log.Printf("question stats update failed for %s: %v", questionID, err)
	}
}
