package engine

import (
	courseModels "lms/models/course"
)

// WeightPolicy maps lesson difficulty and position to an aggregation weight.
// It is injectable so deployments can tune how much harder/later lessons
// count toward course completion.
type WeightPolicy struct {
	Difficulty  map[string]float64 // difficulty -> base weight
	OrderGrowth float64            // extra weight per lesson position
}

// DefaultWeightPolicy returns the standard weighting: harder lessons weigh
// more, and each later lesson gains 10% on top of its difficulty weight.
func DefaultWeightPolicy() WeightPolicy {
	return WeightPolicy{
		Difficulty: map[string]float64{
			courseModels.DifficultyBeginner:     1.0,
			courseModels.DifficultyIntermediate: 1.25,
			courseModels.DifficultyAdvanced:     1.5,
			courseModels.DifficultyExpert:       2.0,
		},
		OrderGrowth: 0.1,
	}
}

// LessonWeight returns the aggregation weight for a lesson at the given
// position (0-based) in the course ordering.
func (p WeightPolicy) LessonWeight(lesson courseModels.Lesson, position int) float64 {
	base, ok := p.Difficulty[lesson.Difficulty]
	if !ok || base <= 0 {
		base = 1.0
	}
	return base * (1.0 + p.OrderGrowth*float64(position))
}

// ContentWeight returns the importance weight of a content item. Weights are
// not pre-normalized; aggregation normalizes per lesson.
func ContentWeight(item courseModels.ContentItem) float64 {
	if item.Importance <= 0 {
		return 1.0
	}
	return item.Importance
}
