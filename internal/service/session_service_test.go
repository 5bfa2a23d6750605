package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

type stubQuestionGenerator struct {
	hints []models.Difficulty
	// echo makes the generator honour the hint; otherwise it always answers with fixed.
	echo  bool
	fixed models.Difficulty
	err   error
}

func (s *stubQuestionGenerator) GenerateQuestion(_ context.Context, _ string, topic string, difficulty models.Difficulty) (*models.GeneratedQuestion, error) {
	s.hints = append(s.hints, difficulty)
	if s.err != nil {
		return nil, s.err
	}
	used := s.fixed
	if s.echo {
		used = difficulty
	}
	return &models.GeneratedQuestion{
		Topic:      topic,
		Difficulty: used,
		Question: models.Question{
			Text:          "Which structure offers O(1) indexed access?",
			Options:       map[string]string{"A": "Array", "B": "Linked list", "C": "Heap", "D": "Trie"},
			CorrectAnswer: "A",
			Explanation:   "Arrays are contiguous.",
		},
	}, nil
}

type stubGrader struct {
	mastery float64
	calls   int
	err     error
}

func (g *stubGrader) SubmitAnswer(_ context.Context, _, _, selected, correct string) (*models.GradeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &models.GradeResult{Correct: selected == correct, UpdatedMastery: g.mastery}, nil
}

type sessionFixture struct {
	svc         *SessionService
	store       *StatsStore
	assessments *AssessmentService
	questions   *stubQuestionGenerator
	grader      *stubGrader
	clock       *fakeClock
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	store := newTestStore(newMemStatsRepo())
	clock := &fakeClock{current: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	metrics := NewMetricsService()
	assessments := NewAssessmentService(store, metrics, nil, zap.NewNop())
	assessments.now = clock.Now
	recorder := NewRecorderService(store, metrics, nil, zap.NewNop(), time.UTC)
	recorder.now = clock.Now
	questions := &stubQuestionGenerator{echo: true}
	grader := &stubGrader{mastery: 64}
	svc := NewSessionService(store, assessments, recorder, questions, grader, nil, zap.NewNop(), time.Hour)
	svc.now = clock.Now
	return &sessionFixture{svc: svc, store: store, assessments: assessments, questions: questions, grader: grader, clock: clock}
}

func (f *sessionFixture) answerRound(t *testing.T, id, option string) *dto.AnswerFeedback {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.NextQuestion(ctx, id)
	require.NoError(t, err)
	feedback, err := f.svc.SubmitAnswer(ctx, id, dto.SubmitAnswerRequest{SelectedOption: option})
	require.NoError(t, err)
	return feedback
}

func TestSessionRunsDiagnosticThenPractice(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays", Subject: "CS", Module: "Data Structures"})
	require.NoError(t, err)
	assert.Equal(t, "assessment", session.Mode)
	assert.Equal(t, 1, session.Round)
	assert.Equal(t, "medium", session.Difficulty)

	// correct, correct, wrong, correct, correct
	for _, option := range []string{"A", "A", "B", "A", "A"} {
		f.answerRound(t, session.ID, option)
	}
	assert.Equal(t, []models.Difficulty{"medium", "hard", "hard", "medium", "hard"}, f.questions.hints)

	state, err := f.svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "practice", state.Mode)
	require.NotNil(t, state.Assessment)
	// earned 1.5+2+0+1.5+2 = 7 of 9
	assert.Equal(t, 78, state.Assessment.InitialMastery)
	assert.Equal(t, "Advanced", state.Assessment.Classification)
	assert.Equal(t, 78.0, state.CurrentMastery)

	completed, err := f.assessments.IsAssessmentCompleted(ctx, "u", "Arrays")
	require.NoError(t, err)
	assert.True(t, completed)

	stats, err := f.store.Load(ctx, "u")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalQuestions, "diagnostic rounds are not recorded as practice")

	_, err = f.svc.NextQuestion(ctx, session.ID)
	require.NoError(t, err)
	f.clock.current = f.clock.current.Add(42*time.Second + 900*time.Millisecond)
	feedback, err := f.svc.SubmitAnswer(ctx, session.ID, dto.SubmitAnswerRequest{SelectedOption: "A"})
	require.NoError(t, err)
	assert.True(t, feedback.Correct)
	assert.Equal(t, "A", feedback.CorrectAnswer)
	assert.Equal(t, 64.0, feedback.UpdatedMastery)
	assert.Equal(t, 1, feedback.Session.PracticeAnswered)

	stats, err = f.store.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, int64(42), stats.TotalTimeSpent)
	assert.Equal(t, 64.0, stats.TopicStats["Arrays"].Mastery)
	assert.Equal(t, 1, stats.SubjectModuleTopicStats["CS"]["Data Structures"]["Arrays"].Questions)
	assert.Equal(t, models.Difficulty(""), f.questions.hints[len(f.questions.hints)-1], "practice questions carry no hint")
}

func TestSessionRecordsDifficultyReportedByGenerator(t *testing.T) {
	f := newSessionFixture(t)
	f.questions.echo = false
	f.questions.fixed = models.DifficultyEasy
	ctx := context.Background()

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Graphs"})
	require.NoError(t, err)
	for i := 0; i < TotalQuestions; i++ {
		f.answerRound(t, session.ID, "A")
	}

	result, err := f.assessments.GetAssessmentResult(ctx, "u", "Graphs")
	require.NoError(t, err)
	for _, q := range result.Questions {
		assert.Equal(t, models.DifficultyEasy, q.Difficulty)
	}
	assert.Equal(t, 100, result.InitialMastery)
}

func TestSessionStartsInPracticeWhenAssessed(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.assessments.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Topic: "Trees", Questions: diagnostic("medium", true)})
	require.NoError(t, err)

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Trees"})
	require.NoError(t, err)
	assert.Equal(t, "practice", session.Mode)
	assert.Equal(t, 100.0, session.CurrentMastery)

	forced, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Trees", ForceAssessment: true})
	require.NoError(t, err)
	assert.Equal(t, "assessment", forced.Mode)
}

func TestSessionNextQuestionIsIdempotentWhilePending(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays"})
	require.NoError(t, err)

	first, err := f.svc.NextQuestion(ctx, session.ID)
	require.NoError(t, err)
	second, err := f.svc.NextQuestion(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, f.questions.hints, 1)
	assert.Equal(t, first.Pending, second.Pending)
	assert.NotContains(t, first.Pending.Options, "")
}

func TestSessionSubmitGuards(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays"})
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, session.ID, dto.SubmitAnswerRequest{SelectedOption: "A"})
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.NextQuestion(ctx, session.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, session.ID, dto.SubmitAnswerRequest{SelectedOption: "E"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = f.svc.SubmitAnswer(ctx, session.ID, dto.SubmitAnswerRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, f.grader.calls)

	_, err = f.svc.SubmitAnswer(ctx, "missing", dto.SubmitAnswerRequest{SelectedOption: "A"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSessionUpstreamFailuresKeepState(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays"})
	require.NoError(t, err)

	f.questions.err = errors.New("llm timeout")
	_, err = f.svc.NextQuestion(ctx, session.ID)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	f.questions.err = nil

	_, err = f.svc.NextQuestion(ctx, session.ID)
	require.NoError(t, err)
	f.grader.err = errors.New("grader down")
	_, err = f.svc.SubmitAnswer(ctx, session.ID, dto.SubmitAnswerRequest{SelectedOption: "A"})
	assert.ErrorIs(t, err, appErrors.ErrUpstream)

	state, err := f.svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, state.Pending, "the question stays pending after a failed grade")
	assert.Equal(t, 1, state.Round)
}

func TestSessionExpiryAndEnd(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays"})
	require.NoError(t, err)
	second, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Trees"})
	require.NoError(t, err)

	require.NoError(t, f.svc.End(ctx, second.ID))
	assert.ErrorIs(t, f.svc.End(ctx, second.ID), appErrors.ErrNotFound)

	f.clock.current = f.clock.current.Add(2 * time.Hour)
	_, err = f.svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Zero(t, f.svc.PurgeExpired())
}

func TestSessionClampsOutOfRangeMastery(t *testing.T) {
	f := newSessionFixture(t)
	f.grader.mastery = 140
	ctx := context.Background()

	_, err := f.assessments.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Topic: "Arrays"})
	require.NoError(t, err)
	session, err := f.svc.Start(ctx, dto.StartSessionRequest{UserID: "u", Topic: "Arrays"})
	require.NoError(t, err)

	feedback := f.answerRound(t, session.ID, "B")
	assert.False(t, feedback.Correct)
	assert.Equal(t, 100.0, feedback.UpdatedMastery)
}
