package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"assessment-service/internal/models"
	"assessment-service/internal/selection"
)

func moderateBlock(n int) []models.Question {
	out := make([]models.Question, n)
	for i := 0; i < n; i++ {
		out[i] = question(fmt.Sprintf("m%d", i+1), models.TierModerate)
	}
	return out
}

func easyBlock(n int) []models.Question {
	out := make([]models.Question, n)
	for i := 0; i < n; i++ {
		out[i] = question(fmt.Sprintf("e%d", i+1), models.TierEasy)
	}
	return out
}

// answerSection drives the active block to completion with the given number
// of correct answers and returns the final answer result.
func answerSection(t *testing.T, f *sessionFixture, sessionID string, total, correct int) *AnswerResult {
	t.Helper()
	var last *AnswerResult
	for i := 0; i < total; i++ {
		chosen := "A"
		if i >= correct {
			chosen = "B"
		}
		result, err := f.service.SubmitSectionalAnswer(context.Background(), sessionID, chosen, 10)
		if err != nil {
			t.Fatalf("Answer %d: unexpected error: %v", i+1, err)
		}
		last = result
	}
	return last
}

func TestStartSectional(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)

	result, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Session.Mode != models.ModeSectional {
		t.Errorf("Expected sectional mode, got %s", result.Session.Mode)
	}
	if len(result.Session.Sections) != 1 {
		t.Fatalf("Expected one section, got %d", len(result.Session.Sections))
	}
	section := result.Session.Sections[0]
	if len(section.QuestionIDs) != 10 {
		t.Errorf("Expected a 10-question block, got %d", len(section.QuestionIDs))
	}
	if section.Difficulty != models.TierModerate {
		t.Errorf("Expected moderate block, got %s", section.Difficulty)
	}
	if result.Question.ID != section.QuestionIDs[0] {
		t.Errorf("Expected the block's first question, got %s", result.Question.ID)
	}
	if result.Question.CorrectOption != "" {
		t.Error("Served question must not carry the answer key")
	}
}

func TestStartSectionalInvalidTier(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)

	_, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.Tier("impossible"), 0, 20)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidStateError for an unknown tier, got %v", err)
	}
}

func TestStartSectionalInsufficientQuestions(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(6)...)

	_, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	var insufficient *selection.InsufficientQuestionsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientQuestionsError, got %v", err)
	}
	if insufficient.Found != 6 || insufficient.Needed != 10 {
		t.Errorf("Expected found 6 / needed 10, got %d / %d", insufficient.Found, insufficient.Needed)
	}
}

func TestSectionalPassThresholdInclusive(t *testing.T) {
	testCases := []struct {
		name    string
		correct int
		passed  bool
	}{
		{"10 of 10 passes", 10, true},
		{"4 of 10 passes at the boundary", 4, true},
		{"3 of 10 fails", 3, false},
		{"0 of 10 fails", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSessionFixture(t, moderateBlock(10)...)
			started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			last := answerSection(t, f, started.Session.ID, 10, tc.correct)

			if last.SectionCompleted == nil {
				t.Fatal("Expected the section to complete on the last answer")
			}
			if last.SectionCompleted.Passed != tc.passed {
				t.Errorf("Expected passed=%v at %d/10, got %v", tc.passed, tc.correct, last.SectionCompleted.Passed)
			}
			if last.NextQuestion != nil {
				t.Error("No next question once the block is done")
			}
		})
	}
}

func TestSectionalServesBlockInOrder(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	block := started.Session.Sections[0].QuestionIDs

	for i := 0; i < 9; i++ {
		result, err := f.service.SubmitSectionalAnswer(context.Background(), started.Session.ID, "A", 10)
		if err != nil {
			t.Fatalf("Answer %d: unexpected error: %v", i+1, err)
		}
		if result.NextQuestion == nil || result.NextQuestion.ID != block[i+1] {
			t.Fatalf("Answer %d: expected next question %s, got %+v", i+1, block[i+1], result.NextQuestion)
		}
	}
}

func TestAddSectionRequiresCompletedBlock(t *testing.T) {
	f := newSessionFixture(t, append(moderateBlock(10), easyBlock(10)...)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = f.service.AddSection(context.Background(), started.Session.ID, "sec-b", models.TierEasy, 1)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidStateError while the block is open, got %v", err)
	}
}

func TestAddSectionExcludesServedQuestions(t *testing.T) {
	// Two moderate blocks' worth of questions in the bank: the second
	// section at the same tier must skip everything already served.
	f := newSessionFixture(t, moderateBlock(20)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	answerSection(t, f, started.Session.ID, 10, 5)

	added, err := f.service.AddSection(context.Background(), started.Session.ID, "sec-b", models.TierModerate, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	first := map[string]bool{}
	for _, id := range added.Session.Sections[0].QuestionIDs {
		first[id] = true
	}
	for _, id := range added.Session.Sections[1].QuestionIDs {
		if first[id] {
			t.Errorf("Question %s reused across sections", id)
		}
	}
}

func TestEndSectionalXPCountsPassedSectionsOnly(t *testing.T) {
	f := newSessionFixture(t, append(moderateBlock(10), easyBlock(10)...)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// First section passes (5/10), second fails (2/10).
	answerSection(t, f, started.Session.ID, 10, 5)
	if _, err := f.service.AddSection(context.Background(), started.Session.ID, "sec-b", models.TierEasy, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	answerSection(t, f, started.Session.ID, 10, 2)

	completion, err := f.service.EndSectional(context.Background(), started.Session.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if completion.XPEarned != 50 {
		t.Errorf("Expected 50 XP for one passed section, got %d", completion.XPEarned)
	}

	stored, _ := f.sessionStore.FindByID(context.Background(), started.Session.ID)
	if stored.Status != models.SessionCompleted {
		t.Errorf("Expected completed status, got %s", stored.Status)
	}
	if len(stored.Sections) != 2 {
		t.Fatalf("Expected both section records persisted, got %d", len(stored.Sections))
	}
	if !stored.Sections[0].Passed || stored.Sections[1].Passed {
		t.Error("Expected first section passed and second failed")
	}

	rec, err := f.progressStore.FindByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Expected a progress record, got %v", err)
	}
	if rec.SectionalCompleted != 1 {
		t.Errorf("Expected 1 sectional completion, got %d", rec.SectionalCompleted)
	}
}

func TestEndSectionalExpired(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	answerSection(t, f, started.Session.ID, 10, 10)

	f.sessionStore.sessions[started.Session.ID].EndTime = time.Now().Add(-time.Hour)

	_, err = f.service.EndSectional(context.Background(), started.Session.ID)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}

	stored, _ := f.sessionStore.FindByID(context.Background(), started.Session.ID)
	if stored.Status != models.SessionExpired {
		t.Errorf("Expected expired status, got %s", stored.Status)
	}
	if stored.XPEarned != 0 {
		t.Errorf("Expiry must not award XP, got %d", stored.XPEarned)
	}
}

func TestSectionalAnswerAfterBlockCompleted(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	answerSection(t, f, started.Session.ID, 10, 5)

	_, err = f.service.SubmitSectionalAnswer(context.Background(), started.Session.ID, "A", 10)
	if !errors.Is(err, ErrNoMoreQuestionsInSection) {
		t.Fatalf("Expected ErrNoMoreQuestionsInSection, got %v", err)
	}
}

func TestPracticeAndSectionalModesAreSeparate(t *testing.T) {
	f := newSessionFixture(t, moderateBlock(10)...)
	started, err := f.service.StartSectional(context.Background(), "user-1", "sec-a", models.TierModerate, 0, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A sectional session is invisible to the practice endpoints.
	_, err = f.service.SubmitPracticeAnswer(context.Background(), started.Session.ID, "A", 10)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Expected ErrSessionNotFound across modes, got %v", err)
	}
}
