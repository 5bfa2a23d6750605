package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// QuestionGenerator produces a question for a topic. The difficulty is a hint; the
// generator reports the difficulty it actually used.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, userID, topic string, difficulty models.Difficulty) (*models.GeneratedQuestion, error)
}

// AnswerGrader grades a selected option and reports the learner's updated mastery.
type AnswerGrader interface {
	SubmitAnswer(ctx context.Context, userID, topic, selectedOption, correctAnswer string) (*models.GradeResult, error)
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.PracticeSession
}

// SessionService drives diagnostics and practice rounds for in-memory sessions.
type SessionService struct {
	store       *StatsStore
	assessments *AssessmentService
	recorder    *RecorderService
	questions   QuestionGenerator
	grader      AnswerGrader
	validator   *validator.Validate
	logger      *zap.Logger
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionService constructs the controller. Sessions idle for longer than ttl expire.
func NewSessionService(store *StatsStore, assessments *AssessmentService, recorder *RecorderService, questions QuestionGenerator, grader AnswerGrader, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionService{
		store:       store,
		assessments: assessments,
		recorder:    recorder,
		questions:   questions,
		grader:      grader,
		validator:   ensureValidator(validate),
		logger:      logger,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
}

// Start opens a session. Topics without a committed diagnostic, or when a new diagnostic
// is forced, begin in assessment mode; others go straight to practice.
func (s *SessionService) Start(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic is required")
	}

	completed, err := s.assessments.IsAssessmentCompleted(ctx, req.UserID, topic)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &models.PracticeSession{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Topic:     topic,
		Subject:   strings.TrimSpace(req.Subject),
		Module:    strings.TrimSpace(req.Module),
		StartedAt: now,
		UpdatedAt: now,
	}
	if flat, ok := stats.TopicStats[topic]; ok {
		session.CurrentMastery = flat.Mastery
	}

	if completed && !req.ForceAssessment {
		session.Mode = models.SessionModePractice
	} else {
		session.Mode = models.SessionModeAssessment
		session.Round = 1
		session.Difficulty = NextDifficulty(1, false, models.DifficultyMedium)
		session.Answers = make([]models.AssessmentQuestion, 0, TotalQuestions)
	}

	s.mu.Lock()
	s.purgeExpiredLocked(now)
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()

	s.logger.Info("practice session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.String("topic", topic),
		zap.String("mode", string(session.Mode)),
	)
	return toSessionResponse(session), nil
}

// Get returns the public state of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return toSessionResponse(entry.session), nil
}

// NextQuestion issues the next question. While a question is pending it is returned again.
func (s *SessionService) NextQuestion(ctx context.Context, id string) (*dto.SessionResponse, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	if session.Pending != nil {
		return toSessionResponse(session), nil
	}

	var hint models.Difficulty
	if session.Mode == models.SessionModeAssessment {
		hint = session.Difficulty
	}

	generated, err := s.questions.GenerateQuestion(ctx, session.UserID, session.Topic, hint)
	if err != nil {
		s.logger.Warn("question generation failed", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.WrapAs(err, appErrors.ErrUpstream, "failed to generate question")
	}
	if len(generated.Question.Options) == 0 || !generated.Question.HasOption(generated.Question.CorrectAnswer) {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "question service returned a malformed question")
	}

	difficulty := generated.Difficulty
	if !difficulty.Valid() {
		difficulty = lo.Ternary(hint.Valid(), hint, models.DifficultyMedium)
	}

	now := s.now().UTC()
	session.Pending = &models.PendingQuestion{Difficulty: difficulty, Question: generated.Question, IssuedAt: now}
	session.UpdatedAt = now
	return toSessionResponse(session), nil
}

// SubmitAnswer grades the pending question. Diagnostic rounds accumulate until the
// fifth, which commits the assessment and switches the session to practice. Practice
// answers are recorded with the grader's mastery and the seconds since the question
// was issued.
func (s *SessionService) SubmitAnswer(ctx context.Context, id string, req dto.SubmitAnswerRequest) (*dto.AnswerFeedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	pending := session.Pending
	if pending == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no question is awaiting an answer")
	}
	selected := strings.TrimSpace(req.SelectedOption)
	if !pending.Question.HasOption(selected) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selected option is not one of the offered options")
	}

	grade, err := s.grader.SubmitAnswer(ctx, session.UserID, session.Topic, selected, pending.Question.CorrectAnswer)
	if err != nil {
		s.logger.Warn("answer grading failed", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.WrapAs(err, appErrors.ErrUpstream, "failed to grade answer")
	}
	mastery := s.clampMastery(id, grade.UpdatedMastery)
	now := s.now().UTC()

	switch session.Mode {
	case models.SessionModeAssessment:
		if err := s.advanceAssessment(ctx, session, pending.Difficulty, grade.Correct); err != nil {
			return nil, err
		}
	default:
		elapsed := int64(now.Sub(pending.IssuedAt) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		_, err := s.recorder.RecordQuestion(ctx, session.UserID, dto.RecordQuestionRequest{
			Topic:     session.Topic,
			IsCorrect: lo.ToPtr(grade.Correct),
			Mastery:   lo.ToPtr(mastery),
			TimeSpent: elapsed,
			Subject:   session.Subject,
			Module:    session.Module,
		})
		if err != nil {
			return nil, err
		}
		session.PracticeAnswered++
		if grade.Correct {
			session.PracticeCorrect++
		}
		session.CurrentMastery = mastery
	}

	session.Pending = nil
	session.UpdatedAt = now
	return &dto.AnswerFeedback{
		Correct:        grade.Correct,
		CorrectAnswer:  pending.Question.CorrectAnswer,
		Explanation:    pending.Question.Explanation,
		UpdatedMastery: mastery,
		Session:        *toSessionResponse(session),
	}, nil
}

func (s *SessionService) advanceAssessment(ctx context.Context, session *models.PracticeSession, difficulty models.Difficulty, correct bool) error {
	answers := append(session.Answers, models.AssessmentQuestion{Difficulty: difficulty, IsCorrect: correct})
	if len(answers) < TotalQuestions {
		session.Answers = answers
		session.Round = len(answers) + 1
		session.Difficulty = NextDifficulty(session.Round, correct, difficulty)
		return nil
	}

	outcome, err := s.assessments.commit(ctx, session.UserID, session.Topic, session.Subject, session.Module, answers)
	if err != nil {
		return err
	}
	session.Answers = answers
	session.Assessment = outcome
	session.Mode = models.SessionModePractice
	session.Round = 0
	session.Difficulty = ""
	session.CurrentMastery = float64(outcome.InitialMastery)
	return nil
}

// End discards a session.
func (s *SessionService) End(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	delete(s.sessions, id)
	return nil
}

// PurgeExpired drops sessions idle for longer than the TTL and returns how many were removed.
func (s *SessionService) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeExpiredLocked(s.now().UTC())
}

func (s *SessionService) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for id, entry := range s.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		expired := now.Sub(entry.session.UpdatedAt) > s.ttl
		entry.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionService) entry(id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	if !entry.mu.TryLock() {
		return entry, nil
	}
	expired := s.now().UTC().Sub(entry.session.UpdatedAt) > s.ttl
	entry.mu.Unlock()
	if expired {
		delete(s.sessions, id)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session expired")
	}
	return entry, nil
}

func (s *SessionService) clampMastery(sessionID string, mastery float64) float64 {
	clamped := lo.Clamp(mastery, 0, 100)
	if clamped != mastery {
		s.logger.Warn("grader mastery out of range", zap.String("session_id", sessionID), zap.Float64("mastery", mastery))
	}
	return clamped
}

func toSessionResponse(session *models.PracticeSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:               session.ID,
		UserID:           session.UserID,
		Topic:            session.Topic,
		Subject:          session.Subject,
		Module:           session.Module,
		Mode:             string(session.Mode),
		Round:            session.Round,
		Difficulty:       string(session.Difficulty),
		PracticeAnswered: session.PracticeAnswered,
		PracticeCorrect:  session.PracticeCorrect,
		CurrentMastery:   session.CurrentMastery,
		StartedAt:        session.StartedAt,
		UpdatedAt:        session.UpdatedAt,
	}
	if session.Mode == models.SessionModeAssessment {
		resp.TotalRounds = TotalQuestions
	}
	if p := session.Pending; p != nil {
		resp.Pending = &dto.SessionQuestion{
			Difficulty: string(p.Difficulty),
			Question:   p.Question.Text,
			Options:    p.Question.Options,
			IssuedAt:   p.IssuedAt,
		}
	}
	if a := session.Assessment; a != nil {
		resp.Assessment = &dto.SessionAssessment{
			InitialMastery: a.InitialMastery,
			Classification: string(a.Classification),
			TotalCorrect:   a.TotalCorrect,
			TotalQuestions: a.TotalQuestions,
			Accuracy:       a.Accuracy,
		}
	}
	return resp
}
