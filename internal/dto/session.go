package dto

import "time"

// StartSessionRequest opens a practice session on one topic.
type StartSessionRequest struct {
	UserID          string `json:"user_id" validate:"required,max=191"`
	Topic           string `json:"topic" validate:"required,max=200"`
	Subject         string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Module          string `json:"module,omitempty" validate:"omitempty,max=200"`
	ForceAssessment bool   `json:"force_assessment"`
}

// SubmitAnswerRequest answers the pending question of a session.
type SubmitAnswerRequest struct {
	SelectedOption string `json:"selected_option" validate:"required,max=16"`
}

// SessionQuestion is the learner-facing view of a question; the answer is withheld.
type SessionQuestion struct {
	Difficulty string            `json:"difficulty"`
	Question   string            `json:"question"`
	Options    map[string]string `json:"options"`
	IssuedAt   time.Time         `json:"issued_at"`
}

// SessionAssessment summarises a finished diagnostic inside a session.
type SessionAssessment struct {
	InitialMastery int    `json:"initial_mastery"`
	Classification string `json:"classification"`
	TotalCorrect   int    `json:"total_correct"`
	TotalQuestions int    `json:"total_questions"`
	Accuracy       int    `json:"accuracy"`
}

// SessionResponse is the public state of a practice session.
type SessionResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	Topic            string             `json:"topic"`
	Subject          string             `json:"subject,omitempty"`
	Module           string             `json:"module,omitempty"`
	Mode             string             `json:"mode"`
	Round            int                `json:"round,omitempty"`
	TotalRounds      int                `json:"total_rounds,omitempty"`
	Difficulty       string             `json:"difficulty,omitempty"`
	Pending          *SessionQuestion   `json:"pending,omitempty"`
	Assessment       *SessionAssessment `json:"assessment,omitempty"`
	PracticeAnswered int                `json:"practice_answered"`
	PracticeCorrect  int                `json:"practice_correct"`
	CurrentMastery   float64            `json:"current_mastery"`
	StartedAt        time.Time          `json:"started_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// AnswerFeedback is returned after an answer is graded.
type AnswerFeedback struct {
	Correct        bool            `json:"correct"`
	CorrectAnswer  string          `json:"correct_answer"`
	Explanation    string          `json:"explanation,omitempty"`
	UpdatedMastery float64         `json:"updated_mastery"`
	Session        SessionResponse `json:"session"`
}
