package models

import "time"

// Progress is a questions/correct roll-up with its rounded accuracy.
type Progress struct {
	TotalQuestions int `json:"total_questions"`
	CorrectAnswers int `json:"correct_answers"`
	Accuracy       int `json:"accuracy"`
}

// TopicEntry pairs a topic name with its hierarchical performance.
type TopicEntry struct {
	Name        string            `json:"name"`
	Performance *TopicPerformance `json:"performance"`
}

// TopicRow is a flattened, fully derived topic line used by breakdowns and exports.
type TopicRow struct {
	Subject        string     `json:"subject"`
	Module         string     `json:"module"`
	Topic          string     `json:"topic"`
	Questions      int        `json:"questions"`
	Correct        int        `json:"correct"`
	Accuracy       int        `json:"accuracy"`
	Mastery        float64    `json:"mastery"`
	Classification TopicClass `json:"classification"`
	Assessed       bool       `json:"assessed"`
	InitialMastery *int       `json:"initial_mastery,omitempty"`
}

// ModuleBreakdown is one module with its topics.
type ModuleBreakdown struct {
	Name     string     `json:"name"`
	Progress Progress   `json:"progress"`
	Topics   []TopicRow `json:"topics"`
}

// SubjectBreakdown is one subject with its modules.
type SubjectBreakdown struct {
	Name     string            `json:"name"`
	Progress Progress          `json:"progress"`
	Modules  []ModuleBreakdown `json:"modules"`
}

// AnalyticsOverview is the dashboard summary for one learner.
type AnalyticsOverview struct {
	TotalQuestions   int                `json:"total_questions"`
	CorrectAnswers   int                `json:"correct_answers"`
	Accuracy         int                `json:"accuracy"`
	TimeSpentSeconds int64              `json:"time_spent_seconds"`
	TimeSpentLabel   string             `json:"time_spent_label"`
	CurrentStreak    int                `json:"current_streak"`
	LastPracticeDate string             `json:"last_practice_date,omitempty"`
	TopicsPracticed  int                `json:"topics_practiced"`
	TopicsAssessed   int                `json:"topics_assessed"`
	Subjects         []SubjectBreakdown `json:"subjects"`
}

// SystemMetrics represents process level instrumentation snapshots.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StoreQueryCount          uint64    `json:"store_query_count"`
	AverageStoreQueryMs      float64   `json:"average_store_query_ms"`
	AnswersRecorded          uint64    `json:"answers_recorded"`
	AssessmentsCompleted     uint64    `json:"assessments_completed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
