package models

import "time"

type ExamStatus string

const (
	ExamActive      ExamStatus = "active"
	ExamCompleted   ExamStatus = "completed"
	ExamAbandoned   ExamStatus = "abandoned"
	ExamTimeExpired ExamStatus = "time_expired"
)

// ExamQuestion is the question shape echoed from the remote scoring service.
// Difficulty is its numeric class, 0 (very easy) through 3 (difficult).
type ExamQuestion struct {
	ID         string   `bson:"id" json:"id"`
	Text       string   `bson:"text" json:"text"`
	Options    []Option `bson:"options" json:"options"`
	Difficulty int      `bson:"difficulty" json:"difficulty"`
}

type ExamResponse struct {
	QuestionID       string    `bson:"question_id" json:"question_id"`
	QuestionText     string    `bson:"question_text" json:"question_text"`
	Options          []Option  `bson:"options" json:"options"`
	Difficulty       int       `bson:"difficulty" json:"difficulty"`
	UserAnswer       string    `bson:"user_answer" json:"user_answer"`
	CorrectAnswer    string    `bson:"correct_answer" json:"correct_answer"`
	Correct          bool      `bson:"correct" json:"correct"`
	TimeSpentSeconds int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	AbilityBefore    float64   `bson:"ability_before" json:"ability_before"`
	AbilityAfter     float64   `bson:"ability_after" json:"ability_after"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
}

type TimeStats struct {
	TotalSeconds   int     `bson:"total_seconds" json:"total_seconds"`
	AverageSeconds float64 `bson:"average_seconds" json:"average_seconds"`
	FastestSeconds int     `bson:"fastest_seconds" json:"fastest_seconds"`
	SlowestSeconds int     `bson:"slowest_seconds" json:"slowest_seconds"`
}

type DifficultyBucket struct {
	Attempted int     `bson:"attempted" json:"attempted"`
	Correct   int     `bson:"correct" json:"correct"`
	Accuracy  float64 `bson:"accuracy" json:"accuracy"`
}

func (b *DifficultyBucket) Record(correct bool) {
	b.Attempted++
	if correct {
		b.Correct++
	}
	if b.Attempted > 0 {
		b.Accuracy = float64(b.Correct) / float64(b.Attempted) * 100
	}
}

type DifficultyBreakdown struct {
	VeryEasy  DifficultyBucket `bson:"very_easy" json:"very_easy"`
	Easy      DifficultyBucket `bson:"easy" json:"easy"`
	Moderate  DifficultyBucket `bson:"moderate" json:"moderate"`
	Difficult DifficultyBucket `bson:"difficult" json:"difficult"`
}

// Bucket returns the bucket matching a numeric difficulty class, clamping
// out-of-range classes to the nearest end.
func (d *DifficultyBreakdown) Bucket(difficulty int) *DifficultyBucket {
	switch {
	case difficulty <= 0:
		return &d.VeryEasy
	case difficulty == 1:
		return &d.Easy
	case difficulty == 2:
		return &d.Moderate
	default:
		return &d.Difficult
	}
}

// AdaptiveExamSession is the local record of an externally scored adaptive
// exam. SessionID correlates with the remote scoring service.
type AdaptiveExamSession struct {
	ID              string              `bson:"_id,omitempty" json:"id"`
	UserID          string              `bson:"user_id" json:"user_id"`
	SessionID       string              `bson:"session_id" json:"session_id"`
	Status          ExamStatus          `bson:"status" json:"status"`
	DurationMinutes int                 `bson:"duration_minutes" json:"duration_minutes"`
	StartTime       time.Time           `bson:"start_time" json:"start_time"`
	EndTime         *time.Time          `bson:"end_time,omitempty" json:"end_time,omitempty"`
	InitialAbility  float64             `bson:"initial_ability" json:"initial_ability"`
	CurrentAbility  float64             `bson:"current_ability" json:"current_ability"`
	FinalAbility    *float64            `bson:"final_ability,omitempty" json:"final_ability,omitempty"`
	TotalQuestions  int                 `bson:"total_questions" json:"total_questions"`
	CorrectAnswers  int                 `bson:"correct_answers" json:"correct_answers"`
	WrongAnswers    int                 `bson:"wrong_answers" json:"wrong_answers"`
	Accuracy        float64             `bson:"accuracy" json:"accuracy"`
	TimeStats       TimeStats           `bson:"time_stats" json:"time_stats"`
	Difficulty      DifficultyBreakdown `bson:"difficulty" json:"difficulty"`
	Responses       []ExamResponse      `bson:"responses" json:"responses"`
	CurrentQuestion *ExamQuestion       `bson:"current_question,omitempty" json:"current_question,omitempty"`
	XPEarned        int                 `bson:"xp_earned" json:"xp_earned"`
	BadgesEarned    []string            `bson:"badges_earned" json:"badges_earned"`
	ExamNumber      int                 `bson:"exam_number" json:"exam_number"`
}

// RecomputeAccuracy keeps the stored accuracy in sync with the counters.
// Must be called before every persist once total is non-zero.
func (s *AdaptiveExamSession) RecomputeAccuracy() {
	if s.TotalQuestions == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
}

func (s *AdaptiveExamSession) ExpiredAt(now time.Time) bool {
	return now.After(s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute))
}
