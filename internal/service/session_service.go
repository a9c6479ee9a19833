package service

import (
	"context"
	"errors"
	"time"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/cache"
	"assessment-service/internal/models"
	"assessment-service/internal/progression"
	"assessment-service/internal/selection"

	"go.mongodb.org/mongo-driver/mongo"
)

type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.PracticeSession, error)
	Create(ctx context.Context, session *models.PracticeSession) error
	Replace(ctx context.Context, session *models.PracticeSession) error
	ListByUser(ctx context.Context, userID string, mode models.SessionMode) ([]models.PracticeSession, error)
}

type SessionConfig struct {
	InitialTier            models.Tier
	DefaultDurationMinutes int
	SectionSize            int
	SectionPassThreshold   float64
}

const sessionLockTTL = 30 * time.Second

// SessionService runs the practice and sectional state machines over one
// persisted session record shape.
type SessionService struct {
	store    SessionStore
	bank     *selection.Bank
	progress *ProgressService
	locks    cache.SessionLocker
	events   Publisher
	cfg      SessionConfig
}

func NewSessionService(store SessionStore, bank *selection.Bank, progress *ProgressService, locks cache.SessionLocker, events Publisher, cfg SessionConfig) *SessionService {
	if cfg.InitialTier == "" || !cfg.InitialTier.Valid() {
		cfg.InitialTier = models.TierVeryEasy
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = 60
	}
	if cfg.SectionSize <= 0 {
		cfg.SectionSize = 10
	}
	if cfg.SectionPassThreshold <= 0 {
		cfg.SectionPassThreshold = 40
	}
	return &SessionService{
		store:    store,
		bank:     bank,
		progress: progress,
		locks:    locks,
		events:   events,
		cfg:      cfg,
	}
}

type StartSessionResult struct {
	Session          *models.PracticeSession `json:"session"`
	Question         *models.Question        `json:"question"`
	RemainingSeconds int                     `json:"remaining_seconds"`
}

type SectionResult struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
	Passed   bool    `json:"passed"`
}

type CompletionResult struct {
	XPEarned  int            `json:"xp_earned"`
	Correct   int            `json:"correct"`
	Total     int            `json:"total"`
	Accuracy  float64        `json:"accuracy"`
	NewBadges []models.Badge `json:"new_badges"`
	Level     int            `json:"level"`
	LeveledUp bool           `json:"leveled_up"`
}

type AnswerResult struct {
	Correct          bool              `json:"correct"`
	CorrectOption    string            `json:"correct_option"`
	CorrectCount     int               `json:"correct_count"`
	TotalCount       int               `json:"total_count"`
	NextQuestion     *models.Question  `json:"next_question,omitempty"`
	RemainingSeconds int               `json:"remaining_seconds"`
	SectionCompleted *SectionResult    `json:"section_completed,omitempty"`
	Completed        bool              `json:"completed"`
	Completion       *CompletionResult `json:"completion,omitempty"`
}

type ResultsSummary struct {
	SessionID string               `json:"session_id"`
	Mode      models.SessionMode   `json:"mode"`
	Status    models.SessionStatus `json:"status"`
	Correct   int                  `json:"correct"`
	Total     int                  `json:"total"`
	Accuracy  float64              `json:"accuracy"`
	XPEarned  int                  `json:"xp_earned"`
	Sections  []models.Section     `json:"sections,omitempty"`
}

// StartPractice opens a free-running adaptive session with one question at
// the configured initial tier.
func (s *SessionService) StartPractice(ctx context.Context, userID string, durationMinutes int) (*StartSessionResult, error) {
	if durationMinutes <= 0 {
		durationMinutes = s.cfg.DefaultDurationMinutes
	}

	question, err := s.bank.PickInitial(ctx, s.cfg.InitialTier)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.PracticeSession{
		UserID:          userID,
		Mode:            models.ModePractice,
		StartTime:       now,
		EndTime:         now.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
		Attempts:        []models.Attempt{{QuestionID: question.ID}},
		CurrentIndex:    0,
		CurrentTier:     s.cfg.InitialTier,
		Status:          models.SessionActive,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return &StartSessionResult{
		Session:          session,
		Question:         question.Public(),
		RemainingSeconds: session.RemainingSeconds(now),
	}, nil
}

// SubmitPracticeAnswer records the answer on the current attempt, steps the
// difficulty ladder and serves the next question, completing the session
// when the bank is exhausted.
func (s *SessionService) SubmitPracticeAnswer(ctx context.Context, sessionID, chosenOption string, timeTakenSeconds int) (*AnswerResult, error) {
	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, sessionID, models.ModePractice)
	if err != nil {
		return nil, err
	}

	question, correct, err := s.recordAnswer(ctx, session, chosenOption, timeTakenSeconds)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Correct:       correct,
		CorrectOption: question.CorrectOption,
		CorrectCount:  session.Correct,
		TotalCount:    session.Total,
	}

	nextTier := adaptive.NextTier(session.CurrentTier, correct)
	next, err := s.bank.PickNext(ctx, nextTier, session.UsedQuestionIDs())
	if errors.Is(err, selection.ErrNoQuestionsAvailable) {
		completion, err := s.completeSession(ctx, session)
		if err != nil {
			return nil, err
		}
		result.Completed = true
		result.Completion = completion
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	session.CurrentTier = nextTier
	session.Attempts = append(session.Attempts, models.Attempt{QuestionID: next.ID})
	session.CurrentIndex = len(session.Attempts) - 1
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	result.NextQuestion = next.Public()
	result.RemainingSeconds = session.RemainingSeconds(time.Now())
	return result, nil
}

// EndPractice forces completion regardless of remaining questions.
func (s *SessionService) EndPractice(ctx context.Context, sessionID string) (*CompletionResult, error) {
	return s.endSession(ctx, sessionID, models.ModePractice)
}

// Results is the read-only summary. Correct/total are recomputed strictly
// from answered attempts, and no XP or badge awarding is re-triggered.
func (s *SessionService) Results(ctx context.Context, sessionID string) (*ResultsSummary, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	correct, total := session.AnsweredCounts()
	return &ResultsSummary{
		SessionID: session.ID,
		Mode:      session.Mode,
		Status:    session.Status,
		Correct:   correct,
		Total:     total,
		Accuracy:  accuracy(correct, total),
		XPEarned:  session.XPEarned,
		Sections:  session.Sections,
	}, nil
}

func (s *SessionService) ListByUser(ctx context.Context, userID string, mode models.SessionMode) ([]models.PracticeSession, error) {
	return s.store.ListByUser(ctx, userID, mode)
}

// --- shared machinery ---

func (s *SessionService) lockSession(ctx context.Context, sessionID string) (func(), error) {
	ok, err := s.locks.TryLock(ctx, "session:"+sessionID, sessionLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() { s.locks.Unlock(ctx, "session:"+sessionID) }, nil
}

// loadActive fetches the session, applies lazy expiry and verifies status
// and mode.
func (s *SessionService) loadActive(ctx context.Context, sessionID string, mode models.SessionMode) (*models.PracticeSession, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.Mode != mode {
		return nil, ErrSessionNotFound
	}
	if session.Status == models.SessionActive && session.ExpiredAt(time.Now()) {
		session.Status = models.SessionExpired
		if err := s.store.Replace(ctx, session); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	if session.Status != models.SessionActive {
		return nil, &InvalidStateError{Status: string(session.Status)}
	}
	return session, nil
}

// recordAnswer writes the answer onto the current unanswered attempt and
// updates the running counters and question statistics.
func (s *SessionService) recordAnswer(ctx context.Context, session *models.PracticeSession, chosenOption string, timeTakenSeconds int) (*models.Question, bool, error) {
	attempt := session.CurrentAttempt()
	if attempt == nil || attempt.AnsweredAt != nil {
		return nil, false, ErrNoMoreQuestionsInSection
	}

	question, err := s.bank.Get(ctx, attempt.QuestionID)
	if err != nil {
		return nil, false, err
	}

	correct := question.IsCorrect(chosenOption)
	now := time.Now()
	attempt.ChosenOption = chosenOption
	attempt.Correct = correct
	attempt.TimeTakenSeconds = timeTakenSeconds
	attempt.AnsweredAt = &now

	session.Total++
	if correct {
		session.Correct++
	}

	s.bank.RecordOutcome(ctx, question.ID, correct)
	return question, correct, nil
}

func (s *SessionService) endSession(ctx context.Context, sessionID string, mode models.SessionMode) (*CompletionResult, error) {
	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, sessionID, mode)
	if err != nil {
		return nil, err
	}
	return s.completeSession(ctx, session)
}

// completeSession transitions to completed, computes XP and hands the
// summary to the progression ledger. Awarding happens exactly here, never on
// reads.
func (s *SessionService) completeSession(ctx context.Context, session *models.PracticeSession) (*CompletionResult, error) {
	session.Status = models.SessionCompleted

	var xp int
	kind := progression.KindPractice
	if session.Mode == models.ModeSectional {
		xp = progression.SectionalXP(session.PassedSectionCount())
		kind = progression.KindSectional
	} else {
		xp = progression.PracticeXP(session.Correct)
	}
	session.XPEarned = xp

	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	minutes := int(time.Since(session.StartTime).Minutes())
	ledgerResult, err := s.progress.ApplyCompletion(ctx, session.UserID, progression.Completion{
		Kind:         kind,
		XP:           xp,
		Correct:      session.Correct,
		Total:        session.Total,
		Accuracy:     accuracy(session.Correct, session.Total),
		MinutesSpent: minutes,
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish("assessment.session.completed", map[string]interface{}{
			"session_id": session.ID,
			"user_id":    session.UserID,
			"mode":       session.Mode,
			"xp_earned":  xp,
		})
	}

	return &CompletionResult{
		XPEarned:  xp,
		Correct:   session.Correct,
		Total:     session.Total,
		Accuracy:  accuracy(session.Correct, session.Total),
		NewBadges: ledgerResult.NewBadges,
		Level:     ledgerResult.Level,
		LeveledUp: ledgerResult.LeveledUp,
	}, nil
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
