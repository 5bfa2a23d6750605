package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
)

func TestNextDifficulty(t *testing.T) {
	t.Run("first question is always medium", func(t *testing.T) {
		for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
			assert.Equal(t, models.DifficultyMedium, NextDifficulty(1, true, d))
			assert.Equal(t, models.DifficultyMedium, NextDifficulty(1, false, d))
		}
	})

	t.Run("correct answers climb and saturate", func(t *testing.T) {
		current := NextDifficulty(1, false, "")
		var seen []models.Difficulty
		for round := 2; round <= 4; round++ {
			seen = append(seen, current)
			current = NextDifficulty(round, true, current)
		}
		seen = append(seen, current)
		assert.Equal(t, []models.Difficulty{"medium", "hard", "hard", "hard"}, seen)
	})

	t.Run("incorrect answers fall and saturate", func(t *testing.T) {
		current := NextDifficulty(1, true, "")
		var seen []models.Difficulty
		for round := 2; round <= 4; round++ {
			seen = append(seen, current)
			current = NextDifficulty(round, false, current)
		}
		seen = append(seen, current)
		assert.Equal(t, []models.Difficulty{"medium", "easy", "easy", "easy"}, seen)
	})

	t.Run("single steps", func(t *testing.T) {
		assert.Equal(t, models.DifficultyMedium, NextDifficulty(3, true, models.DifficultyEasy))
		assert.Equal(t, models.DifficultyMedium, NextDifficulty(3, false, models.DifficultyHard))
	})
}

func TestInitialMastery(t *testing.T) {
	q := func(d models.Difficulty, correct bool) models.AssessmentQuestion {
		return models.AssessmentQuestion{Difficulty: d, IsCorrect: correct}
	}

	assert.Equal(t, 0, InitialMastery(nil))
	assert.Equal(t, 0, InitialMastery([]models.AssessmentQuestion{}))

	allHard := func(correct bool) []models.AssessmentQuestion {
		out := make([]models.AssessmentQuestion, TotalQuestions)
		for i := range out {
			out[i] = q(models.DifficultyHard, correct)
		}
		return out
	}
	assert.Equal(t, 100, InitialMastery(allHard(true)))
	assert.Equal(t, 0, InitialMastery(allHard(false)))

	arrays := []models.AssessmentQuestion{
		q(models.DifficultyEasy, true),
		q(models.DifficultyMedium, true),
		q(models.DifficultyHard, false),
		q(models.DifficultyMedium, true),
		q(models.DifficultyHard, true),
	}
	assert.Equal(t, 75, InitialMastery(arrays))

	// Harder correct answers are worth more than easy ones: 2.0/3.0 vs 1.0/3.0.
	assert.Equal(t, 67, InitialMastery([]models.AssessmentQuestion{q(models.DifficultyHard, true), q(models.DifficultyEasy, false)}))
	assert.Equal(t, 33, InitialMastery([]models.AssessmentQuestion{q(models.DifficultyHard, false), q(models.DifficultyEasy, true)}))

	// Order does not matter.
	assert.Equal(t, InitialMastery(arrays), InitialMastery([]models.AssessmentQuestion{arrays[4], arrays[2], arrays[0], arrays[3], arrays[1]}))
}

func TestClassifyMasteryBoundaries(t *testing.T) {
	cases := map[int]models.SkillLevel{
		100: models.SkillLevelAdvanced,
		70:  models.SkillLevelAdvanced,
		69:  models.SkillLevelIntermediate,
		40:  models.SkillLevelIntermediate,
		39:  models.SkillLevelBeginner,
		0:   models.SkillLevelBeginner,
	}
	for score, want := range cases {
		assert.Equal(t, want, ClassifyMastery(score), "score %d", score)
	}
}

func TestRoundPercentRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 0, roundPercent(5, 0))
	assert.Equal(t, 50, roundPercent(1, 2))
	assert.Equal(t, 67, roundPercent(2, 3))
	assert.Equal(t, 13, roundPercent(1, 8))
}

var sampleCompletedAt = time.Date(2024, 4, 30, 18, 0, 0, 0, time.UTC)
