package models

// SkillLevel is the diagnostic classification of an initial mastery score.
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
)

// TopicClass is the accuracy classification of a practiced topic. It uses a different
// scale from SkillLevel and the two must not be mixed.
type TopicClass string

const (
	TopicClassStrength   TopicClass = "strength"
	TopicClassDeveloping TopicClass = "developing"
	TopicClassWeakness   TopicClass = "weakness"
)
