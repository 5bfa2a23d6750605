package models

// StructuredSyllabus is the module/topic tree produced by the syllabus structuring service.
type StructuredSyllabus struct {
	Subject string           `json:"subject,omitempty"`
	Modules []SyllabusModule `json:"modules"`
}

// SyllabusModule groups topics.
type SyllabusModule struct {
	Name   string          `json:"name"`
	Topics []SyllabusTopic `json:"topics"`
}

// SyllabusTopic is a leaf of the syllabus tree.
type SyllabusTopic struct {
	Name           string   `json:"name"`
	DifficultyHint string   `json:"difficulty_hint,omitempty"`
	Subtopics      []string `json:"subtopics,omitempty"`
}

// TopicRef is a flattened (subject, module, topic) triple used for recording.
type TopicRef struct {
	Subject        string   `json:"subject"`
	Module         string   `json:"module"`
	Topic          string   `json:"topic"`
	DifficultyHint string   `json:"difficulty_hint,omitempty"`
	Subtopics      []string `json:"subtopics,omitempty"`
}

// TopicProgress annotates a syllabus topic with the learner's state.
type TopicProgress struct {
	TopicRef
	Assessed       bool        `json:"assessed"`
	InitialMastery *int        `json:"initial_mastery,omitempty"`
	Mastery        float64     `json:"mastery"`
	Questions      int         `json:"questions"`
	Accuracy       int         `json:"accuracy"`
	Classification *TopicClass `json:"classification,omitempty"`
}
