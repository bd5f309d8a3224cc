package tracker

import (
	"fmt"
	"strings"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// LogWeight upserts the body-weight reading for a date.
func LogWeight(db *gorm.DB, date string, weight float64, notes string) error {
	if _, err := dateutil.ParseDay(date); err != nil {
		return apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if weight < 20 || weight > 500 {
		return apierror.Validation("weight must be between 20 and 500 kg")
	}
	if len(notes) > 500 {
		notes = notes[:500]
	}

	var row model.WeightLog
	if err := db.Where("date = ?", date).Attrs(model.WeightLog{Date: date}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("loading weight entry: %w", err)
	}
	row.Weight = weight
	row.Notes = strings.TrimSpace(notes)
	if err := db.Save(&row).Error; err != nil {
		return fmt.Errorf("saving weight entry: %w", err)
	}
	return nil
}

// WeightHistory returns every reading in date order.
func WeightHistory(db *gorm.DB) ([]model.WeightLog, error) {
	var rows []model.WeightLog
	if err := db.Order("date").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading weight history: %w", err)
	}
	return rows, nil
}
