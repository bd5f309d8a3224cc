// Package streak derives the consecutive-activity day count from the meal,
// water and exercise logs.
package streak

import (
	"fmt"
	"time"

	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// lookbackDays bounds both the activity query and the backward walk.
const lookbackDays = 365

// Current returns the number of consecutive active days ending at today, or
// at yesterday when nothing has been logged yet today. A day counts as
// active if any one of the three signals fired: a meal was logged, water
// was logged with a positive count, or an exercise was marked completed.
func Current(db *gorm.DB, today time.Time) (int, error) {
	since := dateutil.FormatDay(today.AddDate(0, 0, -lookbackDays))

	active := make(map[string]bool)

	var dates []string
	if err := db.Model(&model.MealLog{}).Where("date >= ?", since).Distinct().Pluck("date", &dates).Error; err != nil {
		return 0, fmt.Errorf("loading meal dates: %w", err)
	}
	for _, d := range dates {
		active[d] = true
	}

	dates = dates[:0]
	if err := db.Model(&model.WaterLog{}).Where("date >= ? AND glasses > 0", since).Distinct().Pluck("date", &dates).Error; err != nil {
		return 0, fmt.Errorf("loading water dates: %w", err)
	}
	for _, d := range dates {
		active[d] = true
	}

	dates = dates[:0]
	if err := db.Model(&model.ExerciseLog{}).Where("date >= ? AND completed = ?", since, true).Distinct().Pluck("date", &dates).Error; err != nil {
		return 0, fmt.Errorf("loading exercise dates: %w", err)
	}
	for _, d := range dates {
		active[d] = true
	}

	// A quiet day so far today doesn't break the streak; start counting
	// from yesterday instead.
	start := today
	if !active[dateutil.FormatDay(today)] {
		start = today.AddDate(0, 0, -1)
	}

	count := 0
	for d := start; count < lookbackDays; d = d.AddDate(0, 0, -1) {
		if !active[dateutil.FormatDay(d)] {
			break
		}
		count++
	}
	return count, nil
}
