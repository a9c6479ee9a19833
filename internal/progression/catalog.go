package progression

import "assessment-service/internal/models"

// BadgeDef is one catalog entry. Every threshold that is set must hold for
// the badge to be awarded; cumulative thresholds read the post-update
// progress record, per-session thresholds read the just-completed session.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Category    string
	Icon        string
	XPReward    int

	MinXP           int
	MinSessions     int
	MinLiveSessions int
	MinStreak       int
	MinHours        float64
	MinPractice     int
	MinSectional    int
	MinExams        int

	MinAccuracy float64
	MinAbility  float64

	// Kind restricts per-session thresholds to completions of one kind.
	// Empty matches any kind.
	Kind SessionKind
}

// Met evaluates the definition's thresholds against the post-update record
// and the triggering completion.
func (d BadgeDef) Met(rec *models.ProgressRecord, c Completion) bool {
	if d.Kind != "" && c.Kind != d.Kind {
		return false
	}
	if d.MinXP > 0 && rec.XP < d.MinXP {
		return false
	}
	if d.MinSessions > 0 && rec.SessionsCompleted < d.MinSessions {
		return false
	}
	if d.MinLiveSessions > 0 && rec.LiveSessions < d.MinLiveSessions {
		return false
	}
	if d.MinStreak > 0 && rec.Streak.Current < d.MinStreak {
		return false
	}
	if d.MinHours > 0 && rec.LearningHours < d.MinHours {
		return false
	}
	if d.MinPractice > 0 && rec.PracticeCompleted < d.MinPractice {
		return false
	}
	if d.MinSectional > 0 && rec.SectionalCompleted < d.MinSectional {
		return false
	}
	if d.MinExams > 0 && rec.ExamsCompleted < d.MinExams {
		return false
	}
	if d.MinAccuracy > 0 && c.Accuracy < d.MinAccuracy {
		return false
	}
	if d.MinAbility > 0 && c.FinalAbility < d.MinAbility {
		return false
	}
	return true
}

// Catalog is the immutable badge table, loaded once at process start and
// keyed by id. Awarding is idempotent: a badge already on a user's record is
// never re-evaluated.
var Catalog = []BadgeDef{
	{
		ID: "first_steps", Name: "First Steps",
		Description: "Complete your first session", Category: "session",
		Icon: "footprints", XPReward: 25, MinSessions: 1,
	},
	{
		ID: "regular", Name: "Regular",
		Description: "Complete 10 sessions", Category: "session",
		Icon: "calendar", XPReward: 50, MinSessions: 10,
	},
	{
		ID: "dedicated", Name: "Dedicated Learner",
		Description: "Complete 50 sessions", Category: "session",
		Icon: "medal", XPReward: 150, MinSessions: 50,
	},
	{
		ID: "live_wire", Name: "Live Wire",
		Description: "Complete 5 live sessions", Category: "session",
		Icon: "video", XPReward: 75, MinLiveSessions: 5,
	},
	{
		ID: "xp_1000", Name: "Rising Star",
		Description: "Earn 1,000 experience points", Category: "experience",
		Icon: "star", XPReward: 50, MinXP: 1000,
	},
	{
		ID: "xp_5000", Name: "High Achiever",
		Description: "Earn 5,000 experience points", Category: "experience",
		Icon: "trophy", XPReward: 150, MinXP: 5000,
	},
	{
		ID: "xp_10000", Name: "Legend",
		Description: "Earn 10,000 experience points", Category: "experience",
		Icon: "crown", XPReward: 300, MinXP: 10000,
	},
	{
		ID: "streak_7", Name: "Week Warrior",
		Description: "Keep a 7-day activity streak", Category: "achievement",
		Icon: "flame", XPReward: 100, MinStreak: 7,
	},
	{
		ID: "streak_30", Name: "Unstoppable",
		Description: "Keep a 30-day activity streak", Category: "achievement",
		Icon: "fire", XPReward: 300, MinStreak: 30,
	},
	{
		ID: "marathon", Name: "Marathon",
		Description: "Accumulate 100 learning hours", Category: "achievement",
		Icon: "clock", XPReward: 200, MinHours: 100,
	},
	{
		ID: "practice_10", Name: "Practice Makes Perfect",
		Description: "Complete 10 practice sessions", Category: "practice",
		Icon: "pencil", XPReward: 75, MinPractice: 10,
	},
	{
		ID: "section_master", Name: "Section Master",
		Description: "Complete 10 sectional tests", Category: "practice",
		Icon: "layers", XPReward: 100, MinSectional: 10,
	},
	{
		ID: "exam_first", Name: "Examinee",
		Description: "Complete your first adaptive exam", Category: "adaptive_exam",
		Icon: "graduation-cap", XPReward: 50, MinExams: 1,
	},
	{
		ID: "exam_ace", Name: "Ace",
		Description: "Score 90% or better on an adaptive exam", Category: "adaptive_exam",
		Icon: "target", XPReward: 150, MinAccuracy: 90, Kind: KindAdaptiveExam,
	},
	{
		ID: "exam_prodigy", Name: "Prodigy",
		Description: "Finish an adaptive exam with ability 2.0 or higher", Category: "adaptive_exam",
		Icon: "brain", XPReward: 200, MinAbility: 2.0, Kind: KindAdaptiveExam,
	},
}
