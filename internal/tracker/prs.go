package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// PR is one personal record as returned to the caller.
type PR struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
	Date  string  `json:"date"`
}

func validPRType(t string) bool {
	return t == "reps" || t == "weight" || t == "time"
}

// LogPR records a personal record attempt. The stored value is only
// replaced when the new one is better: lower for time PRs, higher for reps
// and weight. Returns whether the record was updated.
func LogPR(db *gorm.DB, exerciseName string, value float64, prType string, today time.Time) (bool, error) {
	exerciseName = strings.TrimSpace(exerciseName)
	if exerciseName == "" || len(exerciseName) > 100 {
		return false, apierror.Validation("exercise name must be 1-100 characters")
	}
	if !validPRType(prType) {
		prType = "reps"
	}

	var existing model.PRLog
	err := db.Where("exercise_name = ?", exerciseName).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("loading PR: %w", err)
	}

	if found {
		better := value > existing.Value
		if prType == "time" {
			better = value < existing.Value
		}
		if !better {
			return false, nil
		}
	}

	achieved := today.Format("Jan 2")
	if found {
		existing.Value = value
		existing.PRType = prType
		existing.AchievedDate = achieved
		if err := db.Save(&existing).Error; err != nil {
			return false, fmt.Errorf("saving PR: %w", err)
		}
		return true, nil
	}

	row := model.PRLog{ExerciseName: exerciseName, Value: value, PRType: prType, AchievedDate: achieved}
	if err := db.Create(&row).Error; err != nil {
		return false, fmt.Errorf("creating PR: %w", err)
	}
	return true, nil
}

// PRs returns every personal record keyed by exercise name.
func PRs(db *gorm.DB) (map[string]PR, error) {
	var rows []model.PRLog
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading PRs: %w", err)
	}

	out := make(map[string]PR, len(rows))
	for _, r := range rows {
		out[r.ExerciseName] = PR{Value: r.Value, Type: r.PRType, Date: r.AchievedDate}
	}
	return out, nil
}
