package models

import "time"

// SessionMode is the phase a practice session is in.
type SessionMode string

const (
	SessionModeAssessment SessionMode = "assessment"
	SessionModePractice   SessionMode = "practice"
)

// PendingQuestion is a question handed to the learner and not yet answered.
type PendingQuestion struct {
	Difficulty Difficulty
	Question   Question
	IssuedAt   time.Time
}

// AssessmentOutcome summarises a committed diagnostic.
type AssessmentOutcome struct {
	InitialMastery int        `json:"initial_mastery"`
	Classification SkillLevel `json:"classification"`
	TotalCorrect   int        `json:"total_correct"`
	TotalQuestions int        `json:"total_questions"`
	Accuracy       int        `json:"accuracy"`
}

// PracticeSession is the controller state for one learner working on one topic.
type PracticeSession struct {
	ID      string
	UserID  string
	Topic   string
	Subject string
	Module  string
	Mode    SessionMode

	// Round is the 1-based diagnostic round awaiting a question; zero in practice mode.
	Round      int
	Difficulty Difficulty
	Answers    []AssessmentQuestion
	Pending    *PendingQuestion
	Assessment *AssessmentOutcome

	PracticeAnswered int
	PracticeCorrect  int
	CurrentMastery   float64

	StartedAt time.Time
	UpdatedAt time.Time
}
