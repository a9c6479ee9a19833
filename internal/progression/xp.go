package progression

import "assessment-service/internal/models"

// PracticeXP awards a flat amount per correct answer in a practice session.
func PracticeXP(correctAnswers int) int {
	return correctAnswers * 10
}

// SectionalXP awards per section that was both completed and passed.
func SectionalXP(passedSections int) int {
	return passedSections * 50
}

// ExamXP computes the XP for a completed (or saved) adaptive exam. Each bonus
// category is additive and independent of the others; within one category at
// most one tier applies.
func ExamXP(session *models.AdaptiveExamSession) int {
	xp := 50
	xp += session.CorrectAnswers * 10

	switch {
	case session.Accuracy >= 90:
		xp += 100
	case session.Accuracy >= 80:
		xp += 75
	case session.Accuracy >= 70:
		xp += 50
	case session.Accuracy >= 60:
		xp += 25
	}

	xp += session.Difficulty.Difficult.Correct * 20
	xp += session.Difficulty.Moderate.Correct * 10

	if session.TotalQuestions > 0 && session.TimeStats.AverageSeconds < 15 && session.Accuracy >= 70 {
		xp += 50
	}

	ability := session.CurrentAbility
	if session.FinalAbility != nil {
		ability = *session.FinalAbility
	}
	switch {
	case ability >= 2.0:
		xp += 100
	case ability >= 1.5:
		xp += 50
	}

	return xp
}
