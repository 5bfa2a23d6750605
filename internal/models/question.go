package models

// Question is a multiple choice question produced by the external question service.
type Question struct {
	Text          string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// HasOption reports whether label is one of the offered option labels.
func (q Question) HasOption(label string) bool {
	_, ok := q.Options[label]
	return ok
}

// GeneratedQuestion pairs a question with the difficulty it was generated at.
type GeneratedQuestion struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Question   Question   `json:"question"`
}

// GradeResult is the external grader's verdict. UpdatedMastery is authoritative and
// stored verbatim.
type GradeResult struct {
	Correct        bool    `json:"correct"`
	Score          int     `json:"score"`
	UpdatedMastery float64 `json:"updated_mastery"`
	NextDifficulty string  `json:"next_difficulty,omitempty"`
}
