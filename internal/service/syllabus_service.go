package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

const syllabusSchemaURL = "schema://structured-syllabus.json"

const syllabusSchema = `{
  "type": "object",
  "required": ["modules"],
  "properties": {
    "subject": {"type": "string"},
    "modules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "topics"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "topics": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "difficulty_hint": {"enum": ["easy", "medium", "hard", ""]},
                "subtopics": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	syllabusSchemaOnce     sync.Once
	syllabusSchemaCompiled *jsonschema.Schema
	syllabusSchemaErr      error
)

func compiledSyllabusSchema() (*jsonschema.Schema, error) {
	syllabusSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(syllabusSchema))
		if err != nil {
			syllabusSchemaErr = fmt.Errorf("parse syllabus schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(syllabusSchemaURL, doc); err != nil {
			syllabusSchemaErr = fmt.Errorf("add syllabus schema: %w", err)
			return
		}
		syllabusSchemaCompiled, syllabusSchemaErr = c.Compile(syllabusSchemaURL)
	})
	return syllabusSchemaCompiled, syllabusSchemaErr
}

// SyllabusService turns structured syllabi into recordable topics and progress views.
type SyllabusService struct {
	store  *StatsStore
	logger *zap.Logger
}

// NewSyllabusService constructs the service.
func NewSyllabusService(store *StatsStore, logger *zap.Logger) *SyllabusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{store: store, logger: logger}
}

// Parse validates raw syllabus JSON and decodes it.
func (s *SyllabusService) Parse(raw []byte) (*models.StructuredSyllabus, error) {
	schema, err := compiledSyllabusSchema()
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "syllabus schema unavailable")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "syllabus is not valid JSON")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "syllabus does not match the expected structure")
	}

	var syllabus models.StructuredSyllabus
	if err := json.Unmarshal(raw, &syllabus); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid syllabus")
	}
	return &syllabus, nil
}

// Flatten lists the (subject, module, topic) triples of a syllabus in document order.
func (s *SyllabusService) Flatten(raw []byte) (*dto.SyllabusTopicsResponse, error) {
	syllabus, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &dto.SyllabusTopicsResponse{Subject: strings.TrimSpace(syllabus.Subject), Topics: flattenSyllabus(syllabus)}, nil
}

// Progress annotates every syllabus topic with the learner's current statistics.
func (s *SyllabusService) Progress(ctx context.Context, userID string, raw []byte) (*dto.SyllabusProgressResponse, error) {
	syllabus, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	refs := flattenSyllabus(syllabus)
	progress := make([]models.TopicProgress, 0, len(refs))
	for _, ref := range refs {
		progress = append(progress, topicProgress(stats, ref))
	}
	return &dto.SyllabusProgressResponse{Subject: strings.TrimSpace(syllabus.Subject), Topics: progress}, nil
}

func flattenSyllabus(syllabus *models.StructuredSyllabus) []models.TopicRef {
	subject := strings.TrimSpace(syllabus.Subject)
	refs := make([]models.TopicRef, 0)
	for _, module := range syllabus.Modules {
		for _, topic := range module.Topics {
			refs = append(refs, models.TopicRef{
				Subject:        subject,
				Module:         strings.TrimSpace(module.Name),
				Topic:          strings.TrimSpace(topic.Name),
				DifficultyHint: topic.DifficultyHint,
				Subtopics:      topic.Subtopics,
			})
		}
	}
	return refs
}

// topicProgress prefers the hierarchical entry when the syllabus names a subject, and
// falls back to the flat topic table otherwise.
func topicProgress(stats *models.PracticeStats, ref models.TopicRef) models.TopicProgress {
	out := models.TopicProgress{TopicRef: ref}

	var questions, correct int
	if perf, ok := stats.SubjectModuleTopicStats[ref.Subject][ref.Module][ref.Topic]; ok && ref.Subject != "" {
		questions, correct, out.Mastery = perf.Questions, perf.Correct, perf.Mastery
	} else if flat, ok := stats.TopicStats[ref.Topic]; ok {
		questions, correct, out.Mastery = flat.Questions, flat.Correct, flat.Mastery
	}
	out.Questions = questions
	out.Accuracy = roundPercent(float64(correct), float64(questions))
	if questions > 0 {
		class := ClassifyTopic(out.Accuracy)
		out.Classification = &class
	}

	if result, ok := stats.Assessments[ref.Topic]; ok && !result.CompletedAt.IsZero() {
		out.Assessed = true
		initial := result.InitialMastery
		out.InitialMastery = &initial
	}
	return out
}
