package tracker

import (
	"fmt"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

func validDayType(t string) bool {
	return t == "normal" || t == "light" || t == "cheat"
}

// SetDayType tags a date as normal, light or cheat. Unknown types fall back
// to normal.
func SetDayType(db *gorm.DB, date, dayType string) error {
	if _, err := dateutil.ParseDay(date); err != nil {
		return apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	if !validDayType(dayType) {
		dayType = "normal"
	}

	var row model.DayType
	if err := db.Where("date = ?", date).Attrs(model.DayType{Date: date}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("loading day type: %w", err)
	}
	row.Type = dayType
	if err := db.Save(&row).Error; err != nil {
		return fmt.Errorf("saving day type: %w", err)
	}
	return nil
}

// DayTypes returns every tagged date.
func DayTypes(db *gorm.DB) (map[string]string, error) {
	var rows []model.DayType
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading day types: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Date] = r.Type
	}
	return out, nil
}
