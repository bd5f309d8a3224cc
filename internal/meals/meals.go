// Package meals implements the meal log, including the optimistic
// concurrency guard on edits.
package meals

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

// Slots are the valid meal types, in display order.
var Slots = []string{"breakfast", "lunch", "dinner", "snacks", "postworkout"}

const (
	maxQuantity = 100
	maxCalories = 10000
	maxMacro    = 1000
	maxFiber    = 500
)

// Entry is one logged item as returned to the caller. LastModified is the
// version token a client must echo back on a guarded edit.
type Entry struct {
	ID           uint    `json:"id"`
	FoodID       *uint   `json:"foodId"`
	FoodName     string  `json:"foodName"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	LastModified string  `json:"lastModified"`
}

// Totals sums the day's macros.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// LogInput is the payload for logging one meal item.
type LogInput struct {
	Date     string
	MealType string
	FoodID   *uint
	FoodName string
	Quantity float64
	Unit     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
}

// TokenFor renders a creation timestamp as the version token used by the
// edit guard. Second granularity, matching the stored column.
func TokenFor(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func validSlot(mealType string) bool {
	for _, s := range Slots {
		if s == mealType {
			return true
		}
	}
	return false
}

func checkMacros(calories, protein, carbs, fat, fiber float64) error {
	switch {
	case calories < 0 || calories > maxCalories:
		return apierror.Validation(fmt.Sprintf("calories must be between 0 and %d", maxCalories))
	case protein < 0 || protein > maxMacro:
		return apierror.Validation(fmt.Sprintf("protein must be between 0 and %d", maxMacro))
	case carbs < 0 || carbs > maxMacro:
		return apierror.Validation(fmt.Sprintf("carbs must be between 0 and %d", maxMacro))
	case fat < 0 || fat > maxMacro:
		return apierror.Validation(fmt.Sprintf("fat must be between 0 and %d", maxMacro))
	case fiber < 0 || fiber > maxFiber:
		return apierror.Validation(fmt.Sprintf("fiber must be between 0 and %d", maxFiber))
	}
	return nil
}

// Log records one meal item and returns its id.
func Log(db *gorm.DB, in LogInput) (uint, error) {
	if _, err := dateutil.ParseDay(in.Date); err != nil {
		return 0, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	mealType := strings.ToLower(in.MealType)
	if !validSlot(mealType) {
		return 0, apierror.Validation("invalid meal type")
	}
	name := strings.TrimSpace(in.FoodName)
	if name == "" || len(name) > 255 {
		return 0, apierror.Validation("food name must be 1-255 characters")
	}
	if in.Quantity <= 0 || in.Quantity > maxQuantity {
		return 0, apierror.Validation("quantity must be greater than 0 and at most 100")
	}
	if err := checkMacros(in.Calories, in.Protein, in.Carbs, in.Fat, in.Fiber); err != nil {
		return 0, err
	}
	unit := in.Unit
	if unit == "" {
		unit = "serving"
	}

	row := model.MealLog{
		Date:     in.Date,
		MealType: mealType,
		FoodID:   in.FoodID,
		FoodName: name,
		Quantity: in.Quantity,
		Unit:     unit,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fat:      in.Fat,
		Fiber:    in.Fiber,
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("logging meal: %w", err)
	}
	return row.ID, nil
}

// Daily returns the day's items grouped by meal slot, plus the macro totals.
// Every slot is present in the result, empty or not.
func Daily(db *gorm.DB, date string) (map[string][]Entry, Totals, error) {
	var totals Totals
	if _, err := dateutil.ParseDay(date); err != nil {
		return nil, totals, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}

	var rows []model.MealLog
	if err := db.Where("date = ?", date).Order("id").Find(&rows).Error; err != nil {
		return nil, totals, fmt.Errorf("loading meals: %w", err)
	}

	grouped := make(map[string][]Entry, len(Slots))
	for _, s := range Slots {
		grouped[s] = []Entry{}
	}
	for _, r := range rows {
		e := Entry{
			ID:           r.ID,
			FoodID:       r.FoodID,
			FoodName:     r.FoodName,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
			Calories:     r.Calories,
			Protein:      r.Protein,
			Carbs:        r.Carbs,
			Fat:          r.Fat,
			Fiber:        r.Fiber,
			LastModified: TokenFor(r.CreatedAt),
		}
		if _, ok := grouped[r.MealType]; ok {
			grouped[r.MealType] = append(grouped[r.MealType], e)
		}
		totals.Calories += r.Calories
		totals.Protein += r.Protein
		totals.Carbs += r.Carbs
		totals.Fat += r.Fat
		totals.Fiber += r.Fiber
	}
	return grouped, totals, nil
}

// Delete removes a single meal item.
func Delete(db *gorm.DB, id int64) error {
	if id <= 0 {
		return apierror.Validation("invalid meal ID")
	}
	res := db.Where("id = ?", id).Delete(&model.MealLog{})
	if res.Error != nil {
		return fmt.Errorf("deleting meal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.NotFound("meal not found")
	}
	return nil
}

// ClearDay deletes every meal logged on a date and reports how many.
func ClearDay(db *gorm.DB, date string) (int64, error) {
	if _, err := dateutil.ParseDay(date); err != nil {
		return 0, apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("date = ?", date).Delete(&model.MealLog{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("clearing day: %w", err)
	}
	return deleted, nil
}

// UpdateInput is the payload for a guarded meal edit. An empty LastModified
// skips the version check.
type UpdateInput struct {
	ID           int64
	Quantity     float64
	Unit         string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Fiber        float64
	LastModified string
}

// Update edits a meal item. When a version token is supplied it is compared
// against the stored creation timestamp and any mismatch rejects the edit
// with a conflict before anything is written. The guard is optimistic: the
// row is not locked between the check and the write, which is acceptable
// since it only needs to catch stale-client overwrites.
func Update(db *gorm.DB, in UpdateInput) error {
	if in.ID <= 0 {
		return apierror.Validation("invalid meal ID")
	}
	if in.Quantity <= 0 || in.Quantity > maxQuantity {
		return apierror.Validation("quantity must be greater than 0 and at most 100")
	}

	// Macros are coerced non-negative; values above the caps are rejected.
	calories := maxf(in.Calories, 0)
	protein := maxf(in.Protein, 0)
	carbs := maxf(in.Carbs, 0)
	fat := maxf(in.Fat, 0)
	fiber := maxf(in.Fiber, 0)
	if err := checkMacros(calories, protein, carbs, fat, fiber); err != nil {
		return err
	}

	if in.LastModified != "" {
		var row model.MealLog
		err := db.Select("created_at").Where("id = ?", in.ID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("meal not found")
		}
		if err != nil {
			return fmt.Errorf("loading meal for version check: %w", err)
		}
		if TokenFor(row.CreatedAt) != in.LastModified {
			return apierror.Conflict("meal was modified by another device")
		}
	}

	updates := map[string]interface{}{
		"quantity": in.Quantity,
		"calories": calories,
		"protein":  protein,
		"carbs":    carbs,
		"fat":      fat,
		"fiber":    fiber,
	}
	if in.Unit != "" {
		updates["unit"] = in.Unit
	}

	res := db.Model(&model.MealLog{}).Where("id = ?", in.ID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating meal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.NotFound("meal not found")
	}
	return nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
