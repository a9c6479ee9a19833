package models

import "time"

type Badge struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Icon        string    `bson:"icon" json:"icon"`
	XPReward    int       `bson:"xp_reward" json:"xp_reward"`
	EarnedAt    time.Time `bson:"earned_at" json:"earned_at"`
	GrantedBy   string    `bson:"granted_by,omitempty" json:"granted_by,omitempty"`
}

type Milestone struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	AchievedAt time.Time `bson:"achieved_at" json:"achieved_at"`
}

type Streak struct {
	Current      int        `bson:"current" json:"current"`
	Longest      int        `bson:"longest" json:"longest"`
	LastActivity *time.Time `bson:"last_activity,omitempty" json:"last_activity,omitempty"`
}

// ProgressRecord is the single per-user progression document. One record per
// user, created at registration, mutated by every XP-earning event.
type ProgressRecord struct {
	ID                 string      `bson:"_id,omitempty" json:"id"`
	UserID             string      `bson:"user_id" json:"user_id"`
	SessionsCompleted  int         `bson:"sessions_completed" json:"sessions_completed"`
	LiveSessions       int         `bson:"live_sessions" json:"live_sessions"`
	NormalSessions     int         `bson:"normal_sessions" json:"normal_sessions"`
	PracticeCompleted  int         `bson:"practice_completed" json:"practice_completed"`
	SectionalCompleted int         `bson:"sectional_completed" json:"sectional_completed"`
	ExamsCompleted     int         `bson:"exams_completed" json:"exams_completed"`
	LearningHours      float64     `bson:"learning_hours" json:"learning_hours"`
	Level              int         `bson:"level" json:"level"`
	XP                 int         `bson:"xp" json:"xp"`
	Badges             []Badge     `bson:"badges" json:"badges"`
	CoursesCompleted   int         `bson:"courses_completed" json:"courses_completed"`
	CoursesInProgress  int         `bson:"courses_in_progress" json:"courses_in_progress"`
	Milestones         []Milestone `bson:"milestones" json:"milestones"`
	Streak             Streak      `bson:"streak" json:"streak"`
	UpdatedAt          time.Time   `bson:"updated_at" json:"updated_at"`
}

func NewProgressRecord(userID string) *ProgressRecord {
	return &ProgressRecord{
		UserID: userID,
		Level:  1,
		Badges: []Badge{},
	}
}

// RecomputeLevel derives the level from cumulative XP. Levels never decrease:
// XP is monotonically non-decreasing, and a stored level above the derived
// one is kept as-is.
func (p *ProgressRecord) RecomputeLevel() {
	derived := p.XP/1000 + 1
	if derived > p.Level {
		p.Level = derived
	}
}

func (p *ProgressRecord) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// XPToNextLevel reports how many points remain until the next level boundary.
func (p *ProgressRecord) XPToNextLevel() int {
	return p.Level*1000 - p.XP
}
