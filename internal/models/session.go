package models

import "time"

type SessionMode string

const (
	ModePractice  SessionMode = "practice"
	ModeSectional SessionMode = "sectional"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionExpired   SessionStatus = "expired"
)

// Attempt is one served question within a practice or sectional session.
// AnsweredAt stays nil until the user submits an answer; exactly one attempt
// per active session is unanswered at any time.
type Attempt struct {
	QuestionID       string     `bson:"question_id" json:"question_id"`
	ChosenOption     string     `bson:"chosen_option" json:"chosen_option"`
	Correct          bool       `bson:"correct" json:"correct"`
	TimeTakenSeconds int        `bson:"time_taken_seconds" json:"time_taken_seconds"`
	AnsweredAt       *time.Time `bson:"answered_at,omitempty" json:"answered_at,omitempty"`
	SectionIndex     *int       `bson:"section_index,omitempty" json:"section_index,omitempty"`
}

// Section is one fixed block of pre-selected questions at a single tier.
type Section struct {
	ID          string   `bson:"id" json:"id"`
	Index       int      `bson:"index" json:"index"`
	Difficulty  Tier     `bson:"difficulty" json:"difficulty"`
	QuestionIDs []string `bson:"question_ids" json:"question_ids"`
	Correct     int      `bson:"correct" json:"correct"`
	Total       int      `bson:"total" json:"total"`
	Completed   bool     `bson:"completed" json:"completed"`
	Passed      bool     `bson:"passed" json:"passed"`
}

func (s *Section) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// PracticeSession is the persisted record for both free-running practice and
// sectional tests. Mode tags the variant; SectionID and Sections are only set
// when Mode is sectional.
type PracticeSession struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	Mode            SessionMode   `bson:"mode" json:"mode"`
	StartTime       time.Time     `bson:"start_time" json:"start_time"`
	EndTime         time.Time     `bson:"end_time" json:"end_time"`
	DurationMinutes int           `bson:"duration_minutes" json:"duration_minutes"`
	Attempts        []Attempt     `bson:"attempts" json:"attempts"`
	CurrentIndex    int           `bson:"current_index" json:"current_index"`
	CurrentTier     Tier          `bson:"current_tier" json:"current_tier"`
	Correct         int           `bson:"correct" json:"correct"`
	Total           int           `bson:"total" json:"total"`
	Status          SessionStatus `bson:"status" json:"status"`
	XPEarned        int           `bson:"xp_earned" json:"xp_earned"`
	SectionID       string        `bson:"section_id,omitempty" json:"section_id,omitempty"`
	Sections        []Section     `bson:"sections,omitempty" json:"sections,omitempty"`
}

func (s *PracticeSession) ExpiredAt(now time.Time) bool {
	return now.After(s.EndTime)
}

func (s *PracticeSession) RemainingSeconds(now time.Time) int {
	remaining := int(s.EndTime.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CurrentAttempt returns the attempt the pointer sits on, or nil when the
// pointer is out of range.
func (s *PracticeSession) CurrentAttempt() *Attempt {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Attempts) {
		return nil
	}
	return &s.Attempts[s.CurrentIndex]
}

// UsedQuestionIDs lists every question already served in this session, in
// order, for exclusion on the next pick.
func (s *PracticeSession) UsedQuestionIDs() []string {
	ids := make([]string, 0, len(s.Attempts))
	for _, a := range s.Attempts {
		ids = append(ids, a.QuestionID)
	}
	return ids
}

// AnsweredCounts recomputes correct/total strictly from attempts with a
// non-nil answered timestamp, independent of the running counters.
func (s *PracticeSession) AnsweredCounts() (correct, total int) {
	for _, a := range s.Attempts {
		if a.AnsweredAt == nil {
			continue
		}
		total++
		if a.Correct {
			correct++
		}
	}
	return correct, total
}

// ActiveSection returns the section currently being answered, or nil.
func (s *PracticeSession) ActiveSection() *Section {
	for i := range s.Sections {
		if !s.Sections[i].Completed {
			return &s.Sections[i]
		}
	}
	return nil
}

func (s *PracticeSession) PassedSectionCount() int {
	count := 0
	for _, sec := range s.Sections {
		if sec.Completed && sec.Passed {
			count++
		}
	}
	return count
}
