package service

import (
	"context"
	"errors"
	"time"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/cache"
	"assessment-service/internal/models"
	"assessment-service/internal/oracle"
	"assessment-service/internal/progression"

	"go.mongodb.org/mongo-driver/mongo"
)

type ExamStore interface {
	FindByID(ctx context.Context, id string) (*models.AdaptiveExamSession, error)
	Create(ctx context.Context, session *models.AdaptiveExamSession) error
	Replace(ctx context.Context, session *models.AdaptiveExamSession) error
	FindActiveByUser(ctx context.Context, userID string) (*models.AdaptiveExamSession, error)
	LatestCompletedByUser(ctx context.Context, userID string) (*models.AdaptiveExamSession, error)
	CountCompletedByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.AdaptiveExamSession, error)
}

const defaultInitialAbility = 0.5

type ExamConfig struct {
	DefaultDurationMinutes int
}

// ExamService is the local side of the externally scored adaptive exam: it
// keeps session bookkeeping, the response log and derived statistics around
// calls to the remote scoring service, which owns all ability math.
type ExamService struct {
	store    ExamStore
	oracle   oracle.Client
	progress *ProgressService
	locks    cache.SessionLocker
	events   Publisher
	cfg      ExamConfig
}

func NewExamService(store ExamStore, client oracle.Client, progress *ProgressService, locks cache.SessionLocker, events Publisher, cfg ExamConfig) *ExamService {
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = 30
	}
	return &ExamService{
		store:    store,
		oracle:   client,
		progress: progress,
		locks:    locks,
		events:   events,
		cfg:      cfg,
	}
}

type StartExamResult struct {
	Session          *models.AdaptiveExamSession `json:"session"`
	Question         *models.ExamQuestion        `json:"question"`
	RemainingSeconds int                         `json:"remaining_seconds"`
}

type ExamAnswerResult struct {
	Correct       bool                 `json:"correct"`
	CorrectAnswer string               `json:"correct_answer"`
	Ability       float64              `json:"ability"`
	NextQuestion  *models.ExamQuestion `json:"next_question,omitempty"`
	Completed     bool                 `json:"completed"`
	Completion    *CompletionResult    `json:"completion,omitempty"`
}

// StartExam opens a new adaptive exam. At most one active exam per user: the
// read-then-create check catches the common case and the storage unique
// index closes the race.
func (s *ExamService) StartExam(ctx context.Context, userID string, durationMinutes int) (*StartExamResult, error) {
	if existing, err := s.store.FindActiveByUser(ctx, userID); err == nil {
		return nil, &DuplicateActiveSessionError{SessionID: existing.ID}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	initialAbility := defaultInitialAbility
	if latest, err := s.store.LatestCompletedByUser(ctx, userID); err == nil && latest.FinalAbility != nil {
		initialAbility = *latest.FinalAbility
	}

	started, err := s.oracle.Start(ctx, userID)
	if err != nil {
		return nil, &OracleUnavailableError{Op: "start", Err: err}
	}

	completedBefore, err := s.store.CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if durationMinutes <= 0 {
		durationMinutes = s.cfg.DefaultDurationMinutes
	}

	session := &models.AdaptiveExamSession{
		UserID:          userID,
		SessionID:       started.SessionID,
		Status:          models.ExamActive,
		DurationMinutes: durationMinutes,
		StartTime:       time.Now(),
		InitialAbility:  initialAbility,
		CurrentAbility:  started.Ability,
		CurrentQuestion: started.Question,
		BadgesEarned:    []string{},
		ExamNumber:      int(completedBefore) + 1,
	}
	if err := s.store.Create(ctx, session); err != nil {
		if isDuplicateKey(err) {
			if existing, findErr := s.store.FindActiveByUser(ctx, userID); findErr == nil {
				return nil, &DuplicateActiveSessionError{SessionID: existing.ID}
			}
			return nil, &DuplicateActiveSessionError{}
		}
		return nil, err
	}

	return &StartExamResult{
		Session:          session,
		Question:         started.Question,
		RemainingSeconds: int(time.Until(session.StartTime.Add(time.Duration(durationMinutes) * time.Minute)).Seconds()),
	}, nil
}

// SubmitAnswer forwards the answer to the scoring service and folds its
// verdict into the response log and derived statistics. Nothing persists
// when the scoring call fails.
func (s *ExamService) SubmitAnswer(ctx context.Context, examID, answer string, timeSpentSeconds int) (*ExamAnswerResult, error) {
	unlock, err := s.lockExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, examID)
	if err != nil {
		return nil, err
	}
	if session.CurrentQuestion == nil {
		return nil, ErrSessionNotFound
	}

	question := session.CurrentQuestion
	scored, err := s.oracle.Submit(ctx, session.SessionID, question.ID, answer, timeSpentSeconds)
	if err != nil {
		return nil, &OracleUnavailableError{Op: "submit", Err: err}
	}

	adaptive.ApplyResponse(session, models.ExamResponse{
		QuestionID:       question.ID,
		QuestionText:     question.Text,
		Options:          question.Options,
		Difficulty:       question.Difficulty,
		UserAnswer:       answer,
		CorrectAnswer:    scored.CorrectAnswer,
		Correct:          scored.Correct,
		TimeSpentSeconds: timeSpentSeconds,
		AbilityBefore:    session.CurrentAbility,
		AbilityAfter:     scored.Ability,
		Timestamp:        time.Now(),
	})

	result := &ExamAnswerResult{
		Correct:       scored.Correct,
		CorrectAnswer: scored.CorrectAnswer,
		Ability:       scored.Ability,
	}

	if scored.QuizComplete {
		completion, err := s.finishExam(ctx, session, scored.Ability)
		if err != nil {
			return nil, err
		}
		result.Completed = true
		result.Completion = completion
		return result, nil
	}

	session.CurrentQuestion = scored.NextQuestion
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}
	result.NextQuestion = scored.NextQuestion
	return result, nil
}

// End closes an exam early. With saveResults the partial progress is treated
// exactly like natural completion; otherwise the session is abandoned with
// no XP or badge effects.
func (s *ExamService) End(ctx context.Context, examID string, saveResults bool) (*CompletionResult, error) {
	unlock, err := s.lockExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, examID)
	if err != nil {
		return nil, err
	}

	if saveResults {
		return s.finishExam(ctx, session, session.CurrentAbility)
	}

	now := time.Now()
	session.Status = models.ExamAbandoned
	session.EndTime = &now
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}
	return nil, nil
}

// Resume is best-effort: the scoring service may not support returning the
// in-flight question, in which case the caller must abandon and restart.
func (s *ExamService) Resume(ctx context.Context, examID string) (*StartExamResult, error) {
	unlock, err := s.lockExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.loadActive(ctx, examID)
	if err != nil {
		return nil, err
	}

	question, err := s.oracle.Resume(ctx, session.SessionID)
	if errors.Is(err, oracle.ErrResumeUnsupported) {
		return nil, ErrCannotResume
	}
	if err != nil {
		return nil, &OracleUnavailableError{Op: "resume", Err: err}
	}

	session.CurrentQuestion = question
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	return &StartExamResult{
		Session:          session,
		Question:         question,
		RemainingSeconds: remainingExamSeconds(session, time.Now()),
	}, nil
}

func (s *ExamService) Get(ctx context.Context, examID string) (*models.AdaptiveExamSession, error) {
	session, err := s.store.FindByID(ctx, examID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

func (s *ExamService) History(ctx context.Context, userID string) ([]models.AdaptiveExamSession, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *ExamService) lockExam(ctx context.Context, examID string) (func(), error) {
	ok, err := s.locks.TryLock(ctx, "exam:"+examID, sessionLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() { s.locks.Unlock(ctx, "exam:"+examID) }, nil
}

// loadActive fetches the exam and applies lazy time expiry. Operations
// against a missing or non-active exam report SessionNotFound.
func (s *ExamService) loadActive(ctx context.Context, examID string) (*models.AdaptiveExamSession, error) {
	session, err := s.store.FindByID(ctx, examID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.Status == models.ExamActive && session.ExpiredAt(time.Now()) {
		now := time.Now()
		session.Status = models.ExamTimeExpired
		session.EndTime = &now
		if err := s.store.Replace(ctx, session); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	if session.Status != models.ExamActive {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// finishExam completes the session, computes XP and hands off to the
// progression ledger before the final persist.
func (s *ExamService) finishExam(ctx context.Context, session *models.AdaptiveExamSession, finalAbility float64) (*CompletionResult, error) {
	now := time.Now()
	session.Status = models.ExamCompleted
	session.EndTime = &now
	session.FinalAbility = &finalAbility
	session.RecomputeAccuracy()

	xp := progression.ExamXP(session)
	session.XPEarned = xp

	ledgerResult, err := s.progress.ApplyCompletion(ctx, session.UserID, progression.Completion{
		Kind:         progression.KindAdaptiveExam,
		XP:           xp,
		Correct:      session.CorrectAnswers,
		Total:        session.TotalQuestions,
		Accuracy:     session.Accuracy,
		FinalAbility: finalAbility,
		MinutesSpent: int(now.Sub(session.StartTime).Minutes()),
	})
	if err != nil {
		return nil, err
	}

	for _, badge := range ledgerResult.NewBadges {
		session.BadgesEarned = append(session.BadgesEarned, badge.ID)
	}
	if err := s.store.Replace(ctx, session); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish("assessment.exam.completed", map[string]interface{}{
			"exam_id":       session.ID,
			"user_id":       session.UserID,
			"xp_earned":     xp,
			"final_ability": finalAbility,
		})
	}

	return &CompletionResult{
		XPEarned:  xp,
		Correct:   session.CorrectAnswers,
		Total:     session.TotalQuestions,
		Accuracy:  session.Accuracy,
		NewBadges: ledgerResult.NewBadges,
		Level:     ledgerResult.Level,
		LeveledUp: ledgerResult.LeveledUp,
	}, nil
}

func remainingExamSeconds(session *models.AdaptiveExamSession, now time.Time) int {
	deadline := session.StartTime.Add(time.Duration(session.DurationMinutes) * time.Minute)
	remaining := int(deadline.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
