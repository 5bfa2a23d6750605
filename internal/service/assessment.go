package service

import (
	"math"

	"github.com/samber/lo"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
)

// TotalQuestions is the fixed length of a diagnostic.
const TotalQuestions = 5

const (
	advancedThreshold     = 70
	intermediateThreshold = 40
)

// NextDifficulty picks the difficulty of diagnostic round questionNumber (1-based) from
// the previous answer and the current difficulty. Round one is always medium.
func NextDifficulty(questionNumber int, previousCorrect bool, current models.Difficulty) models.Difficulty {
	if questionNumber <= 1 {
		return models.DifficultyMedium
	}
	if previousCorrect {
		return current.Harder()
	}
	return current.Easier()
}

// InitialMastery scores a diagnostic as the weighted share of correct answers, 0..100.
func InitialMastery(questions []models.AssessmentQuestion) int {
	possible := lo.SumBy(questions, func(q models.AssessmentQuestion) float64 {
		return q.Difficulty.Weight()
	})
	if possible == 0 {
		return 0
	}
	earned := lo.SumBy(questions, func(q models.AssessmentQuestion) float64 {
		if !q.IsCorrect {
			return 0
		}
		return q.Difficulty.Weight()
	})
	return roundPercent(earned, possible)
}

// ClassifyMastery maps an initial mastery score to a skill level.
func ClassifyMastery(initialMastery int) models.SkillLevel {
	switch {
	case initialMastery >= advancedThreshold:
		return models.SkillLevelAdvanced
	case initialMastery >= intermediateThreshold:
		return models.SkillLevelIntermediate
	default:
		return models.SkillLevelBeginner
	}
}

func countCorrect(questions []models.AssessmentQuestion) int {
	return lo.CountBy(questions, func(q models.AssessmentQuestion) bool { return q.IsCorrect })
}

// roundPercent returns round(100*num/den) with halves rounded up, or 0 when den is 0.
func roundPercent(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Floor(100*num/den + 0.5))
}
