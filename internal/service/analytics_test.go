package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
)

func sampleStats() *models.PracticeStats {
	stats := models.NewPracticeStats()
	stats.TotalQuestions = 20
	stats.CorrectAnswers = 13
	stats.TotalTimeSpent = 3*3600 + 25*60 + 40
	stats.CurrentStreak = 2
	stats.LastPracticeDate = "2024-05-02"

	set := func(subject, module, topic string, questions, correct int, mastery float64) {
		perf := stats.TopicPerformance(subject, module, topic)
		perf.Questions, perf.Correct, perf.Mastery = questions, correct, mastery
		flat := stats.FlatTopic(topic)
		flat.Questions, flat.Correct, flat.Mastery = questions, correct, mastery
	}
	set("CS", "Data Structures", "Arrays", 8, 7, 82)
	set("CS", "Data Structures", "Trees", 6, 3, 55)
	set("CS", "Algorithms", "Sorting", 4, 2, 91)
	set("Math", "Algebra", "Quadratics", 2, 1, 20)
	return stats
}

func TestAccuracyRate(t *testing.T) {
	assert.Equal(t, 0, AccuracyRate(models.NewPracticeStats()))
	assert.Equal(t, 0, AccuracyRate(nil))

	stats := sampleStats()
	first := AccuracyRate(stats)
	assert.Equal(t, 65, first)
	assert.Equal(t, first, AccuracyRate(stats))
}

func TestTimeSpentLabel(t *testing.T) {
	cases := map[int64]string{
		0:     "0m",
		59:    "0m",
		60:    "1m",
		3599:  "59m",
		3600:  "1h 0m",
		12300: "3h 25m",
	}
	for seconds, want := range cases {
		stats := models.NewPracticeStats()
		stats.TotalTimeSpent = seconds
		assert.Equal(t, want, TimeSpentLabel(stats), "seconds %d", seconds)
	}
}

func TestTopicAccuracyAndClassification(t *testing.T) {
	assert.Equal(t, 0, TopicAccuracy(&models.TopicPerformance{}))
	assert.Equal(t, 0, TopicAccuracy(nil))
	assert.Equal(t, 88, TopicAccuracy(&models.TopicPerformance{Questions: 8, Correct: 7}))

	cases := map[int]models.TopicClass{
		100: models.TopicClassStrength,
		70:  models.TopicClassStrength,
		69:  models.TopicClassDeveloping,
		50:  models.TopicClassDeveloping,
		49:  models.TopicClassWeakness,
		0:   models.TopicClassWeakness,
	}
	for accuracy, want := range cases {
		assert.Equal(t, want, ClassifyTopic(accuracy), "accuracy %d", accuracy)
	}
}

func TestListingHelpers(t *testing.T) {
	stats := sampleStats()

	assert.Equal(t, []string{"CS", "Math"}, Subjects(stats))
	assert.Equal(t, []string{"Algorithms", "Data Structures"}, ModulesForSubject(stats, "CS"))
	assert.Empty(t, ModulesForSubject(stats, "History"))
	assert.NotNil(t, ModulesForSubject(stats, "History"))

	topics := TopicsForModule(stats, "CS", "Data Structures")
	if assert.Len(t, topics, 2) {
		assert.Equal(t, "Arrays", topics[0].Name)
		assert.Equal(t, 7, topics[0].Performance.Correct)
		assert.Equal(t, "Trees", topics[1].Name)
	}
	assert.Empty(t, TopicsForModule(stats, "CS", "Networking"))
	assert.Empty(t, Subjects(models.NewPracticeStats()))
}

func TestSubjectAndModuleProgress(t *testing.T) {
	stats := sampleStats()

	assert.Equal(t, models.Progress{TotalQuestions: 18, CorrectAnswers: 12, Accuracy: 67}, SubjectProgress(stats, "CS"))
	assert.Equal(t, models.Progress{TotalQuestions: 14, CorrectAnswers: 10, Accuracy: 71}, ModuleProgress(stats, "CS", "Data Structures"))
	assert.Equal(t, models.Progress{}, SubjectProgress(stats, "History"))
	assert.Equal(t, models.Progress{}, ModuleProgress(stats, "CS", "Networking"))

	stats.TopicPerformance("Art", "Drawing", "Perspective")
	assert.Equal(t, models.Progress{}, SubjectProgress(stats, "Art"))
}

func TestSortTopics(t *testing.T) {
	rows := AllTopicRows(sampleStats())

	names := func(rows []models.TopicRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Topic
		}
		return out
	}

	assert.Equal(t, []string{"Arrays", "Quadratics", "Sorting", "Trees"}, names(SortTopics(rows, SortByName)))
	assert.Equal(t, []string{"Arrays", "Quadratics", "Sorting", "Trees"}, names(SortTopics(rows, SortByAccuracy)), "ties on 50% fall back to name")
	assert.Equal(t, []string{"Sorting", "Arrays", "Trees", "Quadratics"}, names(SortTopics(rows, SortByMastery)))
	assert.Equal(t, names(SortTopics(rows, SortByName)), names(SortTopics(rows, "bogus")))

	assert.True(t, ValidSortKey("Mastery"))
	assert.False(t, ValidSortKey("date"))
}

func TestOverviewAndBreakdown(t *testing.T) {
	stats := sampleStats()
	stats.Assessments["Arrays"] = &models.AssessmentResult{InitialMastery: 75}

	overview := Overview(stats)
	assert.Equal(t, 65, overview.Accuracy)
	assert.Equal(t, "3h 25m", overview.TimeSpentLabel)
	assert.Equal(t, 4, overview.TopicsPracticed)
	assert.Equal(t, 1, overview.TopicsAssessed)
	if assert.Len(t, overview.Subjects, 2) {
		cs := overview.Subjects[0]
		assert.Equal(t, "CS", cs.Name)
		assert.Equal(t, 67, cs.Progress.Accuracy)
		if assert.Len(t, cs.Modules, 2) {
			ds := cs.Modules[1]
			assert.Equal(t, "Data Structures", ds.Name)
			assert.Equal(t, models.TopicClassStrength, ds.Topics[0].Classification)
			assert.Equal(t, models.TopicClassDeveloping, ds.Topics[1].Classification)
		}
	}

	empty := Overview(models.NewPracticeStats())
	assert.Equal(t, "0m", empty.TimeSpentLabel)
	assert.Empty(t, empty.Subjects)
}
