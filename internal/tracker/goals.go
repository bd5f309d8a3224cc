package tracker

import (
	"errors"
	"fmt"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// defaultGoals are returned before the user has saved any targets.
var defaultGoals = model.Goals{
	Calories:     1450,
	Protein:      105,
	Carbs:        140,
	Fat:          50,
	Fiber:        28,
	TargetWeight: 65,
}

// GetGoals returns the saved daily targets, or the defaults if none exist.
func GetGoals(db *gorm.DB) (model.Goals, error) {
	var g model.Goals
	err := db.First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultGoals, nil
	}
	if err != nil {
		return g, fmt.Errorf("loading goals: %w", err)
	}
	return g, nil
}

// UpdateGoals upserts the single goals row.
func UpdateGoals(db *gorm.DB, in model.Goals) error {
	for _, v := range []int{in.Calories, in.Protein, in.Carbs, in.Fat, in.Fiber} {
		if v < 0 || v > 10000 {
			return apierror.Validation("goal values must be between 0 and 10000")
		}
	}
	if in.TargetWeight < 0 || in.TargetWeight > 500 {
		return apierror.Validation("target weight must be between 0 and 500")
	}

	var g model.Goals
	err := db.First(&g).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("loading goals: %w", err)
	}

	g.Calories = in.Calories
	g.Protein = in.Protein
	g.Carbs = in.Carbs
	g.Fat = in.Fat
	g.Fiber = in.Fiber
	g.TargetWeight = in.TargetWeight

	if err := db.Save(&g).Error; err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}
	return nil
}
