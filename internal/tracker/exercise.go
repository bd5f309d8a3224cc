package tracker

import (
	"fmt"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// SetExercise upserts the completion flag for one exercise slot on a date.
func SetExercise(db *gorm.DB, date string, index int, completed bool) error {
	if _, err := dateutil.ParseDay(date); err != nil {
		return apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if index < 0 {
		return apierror.Validation("invalid exercise index")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var row model.ExerciseLog
		if err := tx.Where("date = ? AND exercise_index = ?", date, index).
			Attrs(model.ExerciseLog{Date: date, ExerciseIndex: index}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
		row.Completed = completed
		return tx.Save(&row).Error
	})
	if err != nil {
		return fmt.Errorf("saving exercise entry: %w", err)
	}
	return nil
}

// ToggleExercise flips the completion flag for one exercise slot inside a
// transaction and returns the new value.
func ToggleExercise(db *gorm.DB, date string, index int) (bool, error) {
	if _, err := dateutil.ParseDay(date); err != nil {
		return false, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if index < 0 {
		return false, apierror.Validation("invalid exercise index")
	}

	var completed bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var row model.ExerciseLog
		if err := tx.Where("date = ? AND exercise_index = ?", date, index).
			Attrs(model.ExerciseLog{Date: date, ExerciseIndex: index}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
		row.Completed = !row.Completed
		completed = row.Completed
		return tx.Save(&row).Error
	})
	if err != nil {
		return false, fmt.Errorf("toggling exercise entry: %w", err)
	}
	return completed, nil
}

// ExerciseLog returns the completion map for a date, keyed "date-index".
func ExerciseLog(db *gorm.DB, date string) (map[string]bool, error) {
	if _, err := dateutil.ParseDay(date); err != nil {
		return nil, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}

	var rows []model.ExerciseLog
	if err := db.Where("date = ?", date).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading exercise log: %w", err)
	}

	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[fmt.Sprintf("%s-%d", r.Date, r.ExerciseIndex)] = r.Completed
	}
	return out, nil
}
