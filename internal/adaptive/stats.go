package adaptive

import "assessment-service/internal/models"

// RecomputeTimeStats derives the exam time statistics from the full response
// log. Fastest and slowest are the min and max over all responses so far,
// never just the most recent one.
func RecomputeTimeStats(responses []models.ExamResponse) models.TimeStats {
	var stats models.TimeStats
	if len(responses) == 0 {
		return stats
	}
	stats.FastestSeconds = responses[0].TimeSpentSeconds
	stats.SlowestSeconds = responses[0].TimeSpentSeconds
	for _, r := range responses {
		stats.TotalSeconds += r.TimeSpentSeconds
		if r.TimeSpentSeconds < stats.FastestSeconds {
			stats.FastestSeconds = r.TimeSpentSeconds
		}
		if r.TimeSpentSeconds > stats.SlowestSeconds {
			stats.SlowestSeconds = r.TimeSpentSeconds
		}
	}
	stats.AverageSeconds = float64(stats.TotalSeconds) / float64(len(responses))
	return stats
}

// ApplyResponse folds one logged response into the session's aggregates:
// totals, accuracy, current ability, time statistics and the matching
// difficulty bucket.
func ApplyResponse(session *models.AdaptiveExamSession, response models.ExamResponse) {
	session.Responses = append(session.Responses, response)
	session.TotalQuestions = len(session.Responses)
	correct := 0
	for _, r := range session.Responses {
		if r.Correct {
			correct++
		}
	}
	session.CorrectAnswers = correct
	session.WrongAnswers = session.TotalQuestions - correct
	session.CurrentAbility = response.AbilityAfter
	session.RecomputeAccuracy()
	session.TimeStats = RecomputeTimeStats(session.Responses)
	session.Difficulty.Bucket(response.Difficulty).Record(response.Correct)
}
