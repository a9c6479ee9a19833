package service

import (
	"context"
	"time"

	"assessment-service/internal/models"
)

// StartSectional opens a sectional test session with one pre-fetched block
// of questions at a fixed tier.
func (s *SessionService) StartSectional(ctx context.Context, userID, sectionID string, tier models.Tier, sectionIndex, durationMinutes int) (*StartSessionResult, error) {
	if !tier.Valid() {
		return nil, &InvalidStateError{Status: "unknown tier " + string(tier)}
	}
	if durationMinutes <= 0 {
		durationMinutes = s.cfg.DefaultDurationMinutes
	}

	block, err := s.bank.PickBlock(ctx, tier, s.cfg.SectionSize, nil)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]string, len(block))
	for i, q := range block {
		questionIDs[i] = q.ID
	}

	now := time.Now()
	idx := sectionIndex
	session := &models.PracticeSession{
		UserID:          userID,
		Mode:            models.ModeSectional,
		StartTime:       now,
		EndTime:         now.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
		Attempts:        []models.Attempt{{QuestionID: block[0].ID, SectionIndex: &idx}},
		CurrentIndex:    0,
		CurrentTier:     tier,
		Status:          models.SessionActive,
		SectionID:       sectionID,
		Sections: []models.Section{{
			ID:          sectionID,
			Index:       sectionIndex,
			Difficulty:  tier,
			QuestionIDs: questionIDs,
		}},
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return &StartSessionResult{
		Session:          session,
		Question:         block[0].Public(),
		RemainingSeconds: session.RemainingSeconds(now),
	}, nil
}

// SubmitSectionalAnswer records an answer within the active block. When the
// block's answer count reaches the section size the section is closed and
// scored; the caller then either adds another section or ends the test.
func (s *SessionService) SubmitSectionalAnswer(ctx context.Context, sessionID, chosenOption string, timeTakenSeconds int) (*AnswerResult, error) {
	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, sessionID, models.ModeSectional)
	if err != nil {
		return nil, err
	}

	section := session.ActiveSection()
	if section == nil {
		return nil, ErrNoMoreQuestionsInSection
	}

	question, correct, err := s.recordAnswer(ctx, session, chosenOption, timeTakenSeconds)
	if err != nil {
		return nil, err
	}

	section.Total++
	if correct {
		section.Correct++
	}

	result := &AnswerResult{
		Correct:       correct,
		CorrectOption: question.CorrectOption,
		CorrectCount:  session.Correct,
		TotalCount:    session.Total,
	}

	if section.Total >= len(section.QuestionIDs) {
		section.Completed = true
		section.Passed = section.Accuracy() >= s.cfg.SectionPassThreshold
		if err := s.store.Replace(ctx, session); err != nil {
			return nil, err
		}
		result.SectionCompleted = &SectionResult{
			Correct:  section.Correct,
			Total:    section.Total,
			Accuracy: section.Accuracy(),
			Passed:   section.Passed,
		}
		return result, nil
	}

	nextID := section.QuestionIDs[section.Total]
	next, err := s.bank.Get(ctx, nextID)
	if err != nil {
		return nil, err
	}

	session.Attempts = append(session.Attempts, models.Attempt{QuestionID: nextID, SectionIndex: &section.Index})
	session.CurrentIndex = len(session.Attempts) - 1
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	result.NextQuestion = next.Public()
	result.RemainingSeconds = session.RemainingSeconds(time.Now())
	return result, nil
}

// AddSection appends another fixed block to an ongoing sectional test after
// the previous section completed.
func (s *SessionService) AddSection(ctx context.Context, sessionID, sectionID string, tier models.Tier, sectionIndex int) (*StartSessionResult, error) {
	if !tier.Valid() {
		return nil, &InvalidStateError{Status: "unknown tier " + string(tier)}
	}

	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, sessionID, models.ModeSectional)
	if err != nil {
		return nil, err
	}
	if active := session.ActiveSection(); active != nil {
		return nil, &InvalidStateError{Status: "previous section not completed"}
	}

	block, err := s.bank.PickBlock(ctx, tier, s.cfg.SectionSize, session.UsedQuestionIDs())
	if err != nil {
		return nil, err
	}

	questionIDs := make([]string, len(block))
	for i, q := range block {
		questionIDs[i] = q.ID
	}

	idx := sectionIndex
	session.Sections = append(session.Sections, models.Section{
		ID:          sectionID,
		Index:       sectionIndex,
		Difficulty:  tier,
		QuestionIDs: questionIDs,
	})
	session.CurrentTier = tier
	session.Attempts = append(session.Attempts, models.Attempt{QuestionID: block[0].ID, SectionIndex: &idx})
	session.CurrentIndex = len(session.Attempts) - 1
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	return &StartSessionResult{
		Session:          session,
		Question:         block[0].Public(),
		RemainingSeconds: session.RemainingSeconds(time.Now()),
	}, nil
}

// EndSectional closes the test. XP counts only sections that completed and
// passed; section records persist either way for reporting.
func (s *SessionService) EndSectional(ctx context.Context, sessionID string) (*CompletionResult, error) {
	return s.endSession(ctx, sessionID, models.ModeSectional)
}
