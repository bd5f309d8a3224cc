package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

// purgeExpired deletes overrides older than the Monday of today's week.
// Maintenance-on-read rather than a background job; concurrent purges race
// harmlessly since the deletes are idempotent.
func purgeExpired(db *gorm.DB, today time.Time) error {
	monday := dateutil.FormatDay(dateutil.WeekStart(today))
	if err := db.Where("date < ?", monday).Delete(&model.WorkoutOverride{}).Error; err != nil {
		return fmt.Errorf("purging expired overrides: %w", err)
	}
	return nil
}

// Overrides returns the date→type overrides for the current week, purging
// anything older first.
func Overrides(db *gorm.DB, today time.Time) (map[string]string, error) {
	if err := purgeExpired(db, today); err != nil {
		return nil, err
	}

	monday := dateutil.FormatDay(dateutil.WeekStart(today))
	sunday := dateutil.FormatDay(dateutil.WeekEnd(today))

	var rows []model.WorkoutOverride
	if err := db.Where("date BETWEEN ? AND ?", monday, sunday).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Date] = r.WorkoutType
	}
	return out, nil
}

// SetOverride upserts the override for a single date.
func SetOverride(db *gorm.DB, date, typeKey string) error {
	if _, err := dateutil.ParseDay(date); err != nil {
		return apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if strings.TrimSpace(typeKey) == "" {
		return apierror.Validation("workoutType is required")
	}
	if err := upsertOverride(db, date, typeKey); err != nil {
		return fmt.Errorf("setting override: %w", err)
	}
	return nil
}

func upsertOverride(tx *gorm.DB, date, typeKey string) error {
	var row model.WorkoutOverride
	if err := tx.Where("date = ?", date).Attrs(model.WorkoutOverride{Date: date}).FirstOrCreate(&row).Error; err != nil {
		return err
	}
	row.WorkoutType = typeKey
	return tx.Save(&row).Error
}

// ClearOverrides removes every override within the current week.
func ClearOverrides(db *gorm.DB, today time.Time) error {
	monday := dateutil.FormatDay(dateutil.WeekStart(today))
	sunday := dateutil.FormatDay(dateutil.WeekEnd(today))
	if err := db.Where("date BETWEEN ? AND ?", monday, sunday).Delete(&model.WorkoutOverride{}).Error; err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}
	return nil
}

// EffectiveType resolves the workout planned for a date: its override when
// one exists, else the weekly schedule entry for that weekday.
func EffectiveType(db *gorm.DB, date time.Time) (string, error) {
	ds := dateutil.FormatDay(date)

	var ov model.WorkoutOverride
	err := db.Where("date = ?", ds).First(&ov).Error
	if err == nil {
		return ov.WorkoutType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("loading override: %w", err)
	}

	var day model.ScheduleDay
	err = db.Where("day_of_week = ?", dateutil.DayIndex(date)).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unseeded schedule; treat the day as rest.
			return RestKey, nil
		}
		return "", fmt.Errorf("loading schedule day: %w", err)
	}
	return day.WorkoutType, nil
}
