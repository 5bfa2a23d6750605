package dto

import "github.com/noah-isme/prepx-tracker-api/internal/models"

// SyllabusTopicsResponse lists the flattened topics of a structured syllabus.
type SyllabusTopicsResponse struct {
	Subject string            `json:"subject,omitempty"`
	Topics  []models.TopicRef `json:"topics"`
}

// SyllabusProgressResponse annotates each syllabus topic with the learner's progress.
type SyllabusProgressResponse struct {
	Subject string                 `json:"subject,omitempty"`
	Topics  []models.TopicProgress `json:"topics"`
}
