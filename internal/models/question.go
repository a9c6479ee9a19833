package models

import "time"

type Option struct {
	Label string `bson:"label" json:"label"`
	Text  string `bson:"text" json:"text"`
}

type Question struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Text            string    `bson:"text" json:"text"`
	Options         []Option  `bson:"options" json:"options"`
	CorrectOption   string    `bson:"correct_option" json:"correct_option"`
	Difficulty      Tier      `bson:"difficulty" json:"difficulty"`
	Tag             string    `bson:"tag" json:"tag"`
	Active          bool      `bson:"active" json:"active"`
	TotalAttempts   int       `bson:"total_attempts" json:"total_attempts"`
	CorrectAttempts int       `bson:"correct_attempts" json:"correct_attempts"`
	SuccessRate     float64   `bson:"success_rate" json:"success_rate"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// RecordAttempt updates the per-question counters and the derived success
// rate after an answer.
func (q *Question) RecordAttempt(correct bool) {
	q.TotalAttempts++
	if correct {
		q.CorrectAttempts++
	}
	q.RecomputeSuccessRate()
}

func (q *Question) RecomputeSuccessRate() {
	if q.TotalAttempts == 0 {
		q.SuccessRate = 0
		return
	}
	q.SuccessRate = float64(q.CorrectAttempts) / float64(q.TotalAttempts) * 100
}

func (q *Question) IsCorrect(optionLabel string) bool {
	return optionLabel != "" && optionLabel == q.CorrectOption
}

// Public strips the answer key so a question can be returned to a client
// mid-session.
func (q *Question) Public() *Question {
	public := *q
	public.CorrectOption = ""
	return &public
}
