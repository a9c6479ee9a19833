package progression

import (
	"time"

	"assessment-service/internal/models"
)

type SessionKind string

const (
	KindPractice     SessionKind = "practice"
	KindSectional    SessionKind = "sectional"
	KindAdaptiveExam SessionKind = "adaptive_exam"
	KindSession      SessionKind = "session"
	KindLiveSession  SessionKind = "live_session"
)

// Completion is the summary a session state machine hands to the ledger,
// exactly once per completed, ended or saved session.
type Completion struct {
	Kind         SessionKind
	XP           int
	Correct      int
	Total        int
	Accuracy     float64
	FinalAbility float64
	MinutesSpent int
}

// Result reports what a single ledger application changed.
type Result struct {
	XP        int
	Level     int
	LeveledUp bool
	NewBadges []models.Badge
}

// Ledger applies XP, level, streak and badge rules to a progress record.
// All mutation happens in memory; the caller persists the record in one
// write so XP and badges commit together.
type Ledger struct {
	catalog    []BadgeDef
	qualifying map[SessionKind]bool
}

func NewLedger(catalog []BadgeDef, streakQualifying []string) *Ledger {
	qualifying := make(map[SessionKind]bool, len(streakQualifying))
	for _, kind := range streakQualifying {
		qualifying[SessionKind(kind)] = true
	}
	return &Ledger{catalog: catalog, qualifying: qualifying}
}

// Apply folds one completion into the record: XP, per-kind counters, level,
// streak (for qualifying kinds only) and catalog badges. Badges are
// idempotent by id; a badge already present is never re-evaluated.
func (l *Ledger) Apply(rec *models.ProgressRecord, c Completion, now time.Time) Result {
	levelBefore := rec.Level

	rec.XP += c.XP
	l.countCompletion(rec, c)
	rec.LearningHours += float64(c.MinutesSpent) / 60
	rec.RecomputeLevel()

	if l.qualifying[c.Kind] {
		l.updateStreak(rec, now)
	}

	var awarded []models.Badge
	for _, def := range l.catalog {
		if rec.HasBadge(def.ID) {
			continue
		}
		if !def.Met(rec, c) {
			continue
		}
		badge := models.Badge{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
			EarnedAt:    now,
		}
		rec.Badges = append(rec.Badges, badge)
		awarded = append(awarded, badge)
		rec.XP += def.XPReward
		rec.RecomputeLevel()
	}

	rec.UpdatedAt = now

	return Result{
		XP:        rec.XP,
		Level:     rec.Level,
		LeveledUp: rec.Level > levelBefore,
		NewBadges: awarded,
	}
}

func (l *Ledger) countCompletion(rec *models.ProgressRecord, c Completion) {
	switch c.Kind {
	case KindPractice:
		rec.PracticeCompleted++
	case KindSectional:
		rec.SectionalCompleted++
	case KindAdaptiveExam:
		rec.ExamsCompleted++
	case KindLiveSession:
		rec.LiveSessions++
		rec.SessionsCompleted++
	case KindSession:
		rec.NormalSessions++
		rec.SessionsCompleted++
	}
}

// updateStreak advances the daily activity streak: a completion on a new day
// within 24 hours of the last activity extends the streak, any longer gap
// resets it to 1. Same-day completions leave the count untouched.
func (l *Ledger) updateStreak(rec *models.ProgressRecord, now time.Time) {
	last := rec.Streak.LastActivity
	switch {
	case last == nil:
		rec.Streak.Current = 1
	case sameDay(*last, now):
		// already counted today
	case now.Sub(*last) <= 24*time.Hour:
		rec.Streak.Current++
	default:
		rec.Streak.Current = 1
	}
	if rec.Streak.Current > rec.Streak.Longest {
		rec.Streak.Longest = rec.Streak.Current
	}
	stamp := now
	rec.Streak.LastActivity = &stamp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
