package models

import "time"

// TopicStat is the flat per-topic aggregate keyed by topic name alone.
type TopicStat struct {
	Questions int     `json:"questions"`
	Correct   int     `json:"correct"`
	Mastery   float64 `json:"mastery"`
}

// TopicPerformance is the per (subject, module, topic) aggregate of the hierarchical table.
type TopicPerformance struct {
	Questions           int               `json:"questions"`
	Correct             int               `json:"correct"`
	Mastery             float64           `json:"mastery"`
	Subject             string            `json:"subject,omitempty"`
	Module              string            `json:"module,omitempty"`
	AssessmentCompleted bool              `json:"assessmentCompleted,omitempty"`
	AssessmentResult    *AssessmentResult `json:"assessmentResult,omitempty"`
}

// AssessmentQuestion is one diagnostic round.
type AssessmentQuestion struct {
	Difficulty Difficulty `json:"difficulty"`
	IsCorrect  bool       `json:"isCorrect"`
}

// AssessmentResult is the terminal record of a completed diagnostic for a topic.
type AssessmentResult struct {
	Questions      []AssessmentQuestion `json:"questions"`
	TotalCorrect   int                  `json:"totalCorrect"`
	InitialMastery int                  `json:"initialMastery"`
	CompletedAt    time.Time            `json:"completedAt"`
}

// TopicTable maps topic name to its performance within one module.
type TopicTable map[string]*TopicPerformance

// ModuleTable maps module name to its topics within one subject.
type ModuleTable map[string]TopicTable

// SubjectTable is the subject -> module -> topic hierarchy.
type SubjectTable map[string]ModuleTable

// PracticeStats is the complete per-user analytics record. It is always read and
// written as a whole.
type PracticeStats struct {
	TotalQuestions          int                          `json:"totalQuestions"`
	CorrectAnswers          int                          `json:"correctAnswers"`
	TotalTimeSpent          int64                        `json:"totalTimeSpent"`
	CurrentStreak           int                          `json:"currentStreak"`
	LastPracticeDate        string                       `json:"lastPracticeDate"`
	TopicStats              map[string]*TopicStat        `json:"topicStats"`
	SubjectModuleTopicStats SubjectTable                 `json:"subjectModuleTopicStats"`
	Assessments             map[string]*AssessmentResult `json:"assessments"`
}

// NewPracticeStats returns zeroed stats with every table allocated.
func NewPracticeStats() *PracticeStats {
	return &PracticeStats{
		TopicStats:              map[string]*TopicStat{},
		SubjectModuleTopicStats: SubjectTable{},
		Assessments:             map[string]*AssessmentResult{},
	}
}

// Normalize allocates tables that were absent in persisted data and drops nil leaves.
func (s *PracticeStats) Normalize() {
	if s.TopicStats == nil {
		s.TopicStats = map[string]*TopicStat{}
	}
	if s.SubjectModuleTopicStats == nil {
		s.SubjectModuleTopicStats = SubjectTable{}
	}
	if s.Assessments == nil {
		s.Assessments = map[string]*AssessmentResult{}
	}
	for name, stat := range s.TopicStats {
		if stat == nil {
			delete(s.TopicStats, name)
		}
	}
	for name, result := range s.Assessments {
		if result == nil {
			delete(s.Assessments, name)
		}
	}
	for subject, modules := range s.SubjectModuleTopicStats {
		if modules == nil {
			s.SubjectModuleTopicStats[subject] = ModuleTable{}
			continue
		}
		for module, topics := range modules {
			if topics == nil {
				modules[module] = TopicTable{}
				continue
			}
			for topic, perf := range topics {
				if perf == nil {
					delete(topics, topic)
				}
			}
		}
	}
}

// FlatTopic returns the flat topic entry, creating a zeroed one when absent.
func (s *PracticeStats) FlatTopic(topic string) *TopicStat {
	stat, ok := s.TopicStats[topic]
	if !ok {
		stat = &TopicStat{}
		s.TopicStats[topic] = stat
	}
	return stat
}

// TopicPerformance returns the hierarchical leaf, creating intermediate tables and a
// zeroed leaf when absent.
func (s *PracticeStats) TopicPerformance(subject, module, topic string) *TopicPerformance {
	modules, ok := s.SubjectModuleTopicStats[subject]
	if !ok {
		modules = ModuleTable{}
		s.SubjectModuleTopicStats[subject] = modules
	}
	topics, ok := modules[module]
	if !ok {
		topics = TopicTable{}
		modules[module] = topics
	}
	perf, ok := topics[topic]
	if !ok {
		perf = &TopicPerformance{Subject: subject, Module: module}
		topics[topic] = perf
	}
	return perf
}
