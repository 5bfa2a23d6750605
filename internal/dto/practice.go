package dto

// RecordQuestionRequest captures one graded practice answer.
type RecordQuestionRequest struct {
	Topic     string   `json:"topic" validate:"required,max=200"`
	IsCorrect *bool    `json:"is_correct" validate:"required"`
	Mastery   *float64 `json:"mastery" validate:"required,gte=0,lte=100"`
	// TimeSpent is in whole seconds.
	TimeSpent int64  `json:"time_spent" validate:"gte=0"`
	Subject   string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Module    string `json:"module,omitempty" validate:"omitempty,max=200"`
}

// AssessmentQuestionInput is one diagnostic round as reported by a client.
type AssessmentQuestionInput struct {
	Difficulty string `json:"difficulty" validate:"required,difficulty"`
	IsCorrect  *bool  `json:"is_correct" validate:"required"`
}

// CompleteAssessmentRequest commits a finished diagnostic.
type CompleteAssessmentRequest struct {
	Topic     string                    `json:"topic" validate:"required,max=200"`
	Questions []AssessmentQuestionInput `json:"questions" validate:"max=5,dive"`
	Subject   string                    `json:"subject,omitempty" validate:"omitempty,max=200"`
	Module    string                    `json:"module,omitempty" validate:"omitempty,max=200"`
}

// NextDifficultyRequest asks for the difficulty of the upcoming diagnostic round.
type NextDifficultyRequest struct {
	QuestionNumber    int    `json:"question_number" validate:"required,min=1,max=5"`
	PreviousCorrect   bool   `json:"previous_correct"`
	CurrentDifficulty string `json:"current_difficulty" validate:"omitempty,difficulty"`
}

// NextDifficultyResponse carries the chosen difficulty.
type NextDifficultyResponse struct {
	QuestionNumber int    `json:"question_number"`
	Difficulty     string `json:"difficulty"`
}

// AssessmentStatusResponse reports whether a topic has a committed diagnostic.
type AssessmentStatusResponse struct {
	Topic     string `json:"topic"`
	Completed bool   `json:"completed"`
}

// TopicsQuery filters and orders the topic listing.
type TopicsQuery struct {
	Subject string `form:"subject"`
	Module  string `form:"module" validate:"excluded_without=Subject"`
	Sort    string `form:"sort" validate:"omitempty,oneof=name accuracy mastery"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
