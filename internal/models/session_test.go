package models

import (
	"testing"
	"time"
)

func TestSectionAccuracy(t *testing.T) {
	testCases := []struct {
		correct  int
		total    int
		expected float64
	}{
		{0, 0, 0},
		{4, 10, 40},
		{10, 10, 100},
		{3, 10, 30},
	}

	for _, tc := range testCases {
		section := &Section{Correct: tc.correct, Total: tc.total}
		if got := section.Accuracy(); got != tc.expected {
			t.Errorf("Accuracy(%d/%d): expected %.1f, got %.1f", tc.correct, tc.total, tc.expected, got)
		}
	}
}

func TestRemainingSecondsClamped(t *testing.T) {
	now := time.Now()
	session := &PracticeSession{EndTime: now.Add(90 * time.Second)}

	if got := session.RemainingSeconds(now); got != 90 {
		t.Errorf("Expected 90 seconds remaining, got %d", got)
	}
	if got := session.RemainingSeconds(now.Add(3 * time.Minute)); got != 0 {
		t.Errorf("Expected 0 seconds after the deadline, got %d", got)
	}
}

func TestExpiredAt(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := &PracticeSession{EndTime: end}

	if session.ExpiredAt(end) {
		t.Error("Session must not be expired exactly at its end time")
	}
	if !session.ExpiredAt(end.Add(time.Second)) {
		t.Error("Session must be expired past its end time")
	}
}

func TestAnsweredCounts(t *testing.T) {
	answered := time.Now()
	session := &PracticeSession{
		Attempts: []Attempt{
			{QuestionID: "q1", Correct: true, AnsweredAt: &answered},
			{QuestionID: "q2", Correct: false, AnsweredAt: &answered},
			{QuestionID: "q3"}, // served, never answered
		},
	}

	correct, total := session.AnsweredCounts()
	if correct != 1 || total != 2 {
		t.Errorf("Expected 1/2, got %d/%d", correct, total)
	}
}

func TestCurrentAttemptBounds(t *testing.T) {
	session := &PracticeSession{
		Attempts:     []Attempt{{QuestionID: "q1"}},
		CurrentIndex: 0,
	}

	if a := session.CurrentAttempt(); a == nil || a.QuestionID != "q1" {
		t.Errorf("Expected attempt q1, got %+v", a)
	}

	session.CurrentIndex = 1
	if a := session.CurrentAttempt(); a != nil {
		t.Errorf("Expected nil past the end, got %+v", a)
	}
}

func TestActiveSection(t *testing.T) {
	session := &PracticeSession{
		Sections: []Section{
			{Index: 0, Completed: true, Passed: true},
			{Index: 1},
			{Index: 2},
		},
	}

	active := session.ActiveSection()
	if active == nil || active.Index != 1 {
		t.Errorf("Expected section 1 active, got %+v", active)
	}

	session.Sections[1].Completed = true
	session.Sections[2].Completed = true
	if session.ActiveSection() != nil {
		t.Error("Expected no active section when all are completed")
	}
}

func TestPassedSectionCount(t *testing.T) {
	session := &PracticeSession{
		Sections: []Section{
			{Completed: true, Passed: true},
			{Completed: true, Passed: false},
			{Passed: true}, // not completed, must not count
		},
	}

	if got := session.PassedSectionCount(); got != 1 {
		t.Errorf("Expected 1 passed section, got %d", got)
	}
}
