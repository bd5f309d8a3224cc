package schedule

import (
	"fmt"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"gorm.io/gorm"
)

// SkipDay marks the given day as rest and shifts every later work-week
// day's planned workout forward by one day. The plan that was on Friday
// falls off the end; Saturday and Sunday are never touched. All override
// writes happen in a single transaction, and the post-shift overrides for
// the current week are returned.
func SkipDay(db *gorm.DB, day time.Time) (map[string]string, error) {
	if dateutil.DayIndex(day) > 4 {
		return nil, apierror.Validation("cannot skip on rest days")
	}

	if err := purgeExpired(db, day); err != nil {
		return nil, err
	}

	friday := dateutil.WorkWeekEnd(day)
	var dates []time.Time
	for d := day; !d.After(friday); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	// Resolve the current effective plan for each remaining day. This goes
	// through the overrides, so repeated skips in the same week compound on
	// the already shifted schedule rather than the weekly defaults.
	current := make([]string, len(dates))
	for i, d := range dates {
		t, err := EffectiveType(db, d)
		if err != nil {
			return nil, err
		}
		current[i] = t
	}

	// Right-shift with a rest day injected at the front. With a single date
	// (skipping Friday) this reduces to "set today to rest".
	shifted := make([]string, len(dates))
	shifted[0] = RestKey
	copy(shifted[1:], current[:len(current)-1])

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, d := range dates {
			if err := upsertOverride(tx, dateutil.FormatDay(d), shifted[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("applying skip: %w", err)
	}

	return Overrides(db, day)
}
