package tracker

import (
	"errors"
	"fmt"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// LogWater upserts the glasses count for a date.
func LogWater(db *gorm.DB, date string, glasses int) error {
	if _, err := dateutil.ParseDay(date); err != nil {
		return apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if glasses < 0 || glasses > 50 {
		return apierror.Validation("glasses count must be between 0 and 50")
	}

	var row model.WaterLog
	if err := db.Where("date = ?", date).Attrs(model.WaterLog{Date: date}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("loading water entry: %w", err)
	}
	row.Glasses = glasses
	if err := db.Save(&row).Error; err != nil {
		return fmt.Errorf("saving water entry: %w", err)
	}
	return nil
}

// GetWater returns the glasses count for a date, zero if nothing is logged.
func GetWater(db *gorm.DB, date string) (int, error) {
	if _, err := dateutil.ParseDay(date); err != nil {
		return 0, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}

	var row model.WaterLog
	err := db.Where("date = ?", date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading water entry: %w", err)
	}
	return row.Glasses, nil
}
