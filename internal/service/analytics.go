package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
)

// Topic listing orders.
const (
	SortByName     = "name"
	SortByAccuracy = "accuracy"
	SortByMastery  = "mastery"
)

const (
	strengthThreshold   = 70
	developingThreshold = 50
)

// AccuracyRate is the overall share of correct answers, 0..100.
func AccuracyRate(stats *models.PracticeStats) int {
	if stats == nil {
		return 0
	}
	return roundPercent(float64(stats.CorrectAnswers), float64(stats.TotalQuestions))
}

// TimeSpentLabel renders the accumulated practice time as "{h}h {m}m" or "{m}m".
func TimeSpentLabel(stats *models.PracticeStats) string {
	var seconds int64
	if stats != nil {
		seconds = stats.TotalTimeSpent
	}
	return formatDuration(seconds)
}

func formatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// TopicAccuracy is the share of correct answers on one topic, 0..100.
func TopicAccuracy(perf *models.TopicPerformance) int {
	if perf == nil {
		return 0
	}
	return roundPercent(float64(perf.Correct), float64(perf.Questions))
}

// ClassifyTopic maps a topic accuracy to strength, developing or weakness.
func ClassifyTopic(accuracy int) models.TopicClass {
	switch {
	case accuracy >= strengthThreshold:
		return models.TopicClassStrength
	case accuracy >= developingThreshold:
		return models.TopicClassDeveloping
	default:
		return models.TopicClassWeakness
	}
}

// Subjects lists the subjects of the hierarchical table in name order.
func Subjects(stats *models.PracticeStats) []string {
	if stats == nil {
		return []string{}
	}
	return sortedKeys(stats.SubjectModuleTopicStats)
}

// ModulesForSubject lists the modules of subject in name order; unknown subjects yield none.
func ModulesForSubject(stats *models.PracticeStats, subject string) []string {
	if stats == nil {
		return []string{}
	}
	return sortedKeys(stats.SubjectModuleTopicStats[subject])
}

// TopicsForModule lists the topics of subject/module in name order.
func TopicsForModule(stats *models.PracticeStats, subject, module string) []models.TopicEntry {
	if stats == nil {
		return []models.TopicEntry{}
	}
	topics := stats.SubjectModuleTopicStats[subject][module]
	return lo.Map(sortedKeys(topics), func(name string, _ int) models.TopicEntry {
		return models.TopicEntry{Name: name, Performance: topics[name]}
	})
}

// SubjectProgress sums every topic under subject.
func SubjectProgress(stats *models.PracticeStats, subject string) models.Progress {
	if stats == nil {
		return models.Progress{}
	}
	var leaves []*models.TopicPerformance
	for _, topics := range stats.SubjectModuleTopicStats[subject] {
		leaves = append(leaves, lo.Values(topics)...)
	}
	return sumProgress(leaves)
}

// ModuleProgress sums every topic under subject/module.
func ModuleProgress(stats *models.PracticeStats, subject, module string) models.Progress {
	if stats == nil {
		return models.Progress{}
	}
	return sumProgress(lo.Values(stats.SubjectModuleTopicStats[subject][module]))
}

func sumProgress(leaves []*models.TopicPerformance) models.Progress {
	leaves = lo.Filter(leaves, func(p *models.TopicPerformance, _ int) bool { return p != nil })
	questions := lo.SumBy(leaves, func(p *models.TopicPerformance) int { return p.Questions })
	correct := lo.SumBy(leaves, func(p *models.TopicPerformance) int { return p.Correct })
	return models.Progress{
		TotalQuestions: questions,
		CorrectAnswers: correct,
		Accuracy:       roundPercent(float64(correct), float64(questions)),
	}
}

// TopicRows derives a row per topic of subject/module.
func TopicRows(stats *models.PracticeStats, subject, module string) []models.TopicRow {
	return lo.Map(TopicsForModule(stats, subject, module), func(entry models.TopicEntry, _ int) models.TopicRow {
		return topicRow(subject, module, entry)
	})
}

func topicRow(subject, module string, entry models.TopicEntry) models.TopicRow {
	perf := entry.Performance
	if perf == nil {
		perf = &models.TopicPerformance{}
	}
	accuracy := TopicAccuracy(perf)
	row := models.TopicRow{
		Subject:        subject,
		Module:         module,
		Topic:          entry.Name,
		Questions:      perf.Questions,
		Correct:        perf.Correct,
		Accuracy:       accuracy,
		Mastery:        perf.Mastery,
		Classification: ClassifyTopic(accuracy),
		Assessed:       perf.AssessmentCompleted,
	}
	if perf.AssessmentResult != nil {
		row.InitialMastery = lo.ToPtr(perf.AssessmentResult.InitialMastery)
	}
	return row
}

// SortTopics returns rows ordered by name (ascending), accuracy or mastery (descending).
// Ties fall back to name so the order is deterministic. Unknown keys sort by name.
func SortTopics(rows []models.TopicRow, by string) []models.TopicRow {
	sorted := append([]models.TopicRow(nil), rows...)
	byName := func(a, b models.TopicRow) bool {
		if a.Topic != b.Topic {
			return a.Topic < b.Topic
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Module < b.Module
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch by {
		case SortByAccuracy:
			if a.Accuracy != b.Accuracy {
				return a.Accuracy > b.Accuracy
			}
		case SortByMastery:
			if a.Mastery != b.Mastery {
				return a.Mastery > b.Mastery
			}
		}
		return byName(a, b)
	})
	return sorted
}

// ValidSortKey reports whether by is a supported topic order.
func ValidSortKey(by string) bool {
	return lo.Contains([]string{SortByName, SortByAccuracy, SortByMastery}, strings.ToLower(by))
}

// Breakdown builds the subject -> module -> topic tree with derived progress.
func Breakdown(stats *models.PracticeStats) []models.SubjectBreakdown {
	return lo.Map(Subjects(stats), func(subject string, _ int) models.SubjectBreakdown {
		return subjectBreakdown(stats, subject)
	})
}

func subjectBreakdown(stats *models.PracticeStats, subject string) models.SubjectBreakdown {
	return models.SubjectBreakdown{
		Name:     subject,
		Progress: SubjectProgress(stats, subject),
		Modules: lo.Map(ModulesForSubject(stats, subject), func(module string, _ int) models.ModuleBreakdown {
			return moduleBreakdown(stats, subject, module)
		}),
	}
}

func moduleBreakdown(stats *models.PracticeStats, subject, module string) models.ModuleBreakdown {
	return models.ModuleBreakdown{
		Name:     module,
		Progress: ModuleProgress(stats, subject, module),
		Topics:   TopicRows(stats, subject, module),
	}
}

// Overview assembles the dashboard summary of stats.
func Overview(stats *models.PracticeStats) models.AnalyticsOverview {
	if stats == nil {
		stats = models.NewPracticeStats()
	}
	return models.AnalyticsOverview{
		TotalQuestions:   stats.TotalQuestions,
		CorrectAnswers:   stats.CorrectAnswers,
		Accuracy:         AccuracyRate(stats),
		TimeSpentSeconds: stats.TotalTimeSpent,
		TimeSpentLabel:   TimeSpentLabel(stats),
		CurrentStreak:    stats.CurrentStreak,
		LastPracticeDate: stats.LastPracticeDate,
		TopicsPracticed:  lo.CountBy(lo.Values(stats.TopicStats), func(t *models.TopicStat) bool { return t != nil && t.Questions > 0 }),
		TopicsAssessed:   len(stats.Assessments),
		Subjects:         Breakdown(stats),
	}
}

// AllTopicRows flattens every hierarchical topic into rows.
func AllTopicRows(stats *models.PracticeStats) []models.TopicRow {
	var rows []models.TopicRow
	for _, subject := range Subjects(stats) {
		for _, module := range ModulesForSubject(stats, subject) {
			rows = append(rows, TopicRows(stats, subject, module)...)
		}
	}
	if rows == nil {
		return []models.TopicRow{}
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
