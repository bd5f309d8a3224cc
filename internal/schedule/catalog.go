// Package schedule implements the weekly workout schedule, the workout type
// catalog, date-scoped overrides and the skip/shift engine.
package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// RestKey is the workout type used for rest days and injected by SkipDay.
const RestKey = "rest"

const defaultColor = "gray"

// builtinKeys are seeded on first use and can never be deleted.
var builtinKeys = []string{"push", "pull", "legs", "upper", "cardio", "light_cardio", "rest"}

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,50}$`)

// DayPlan is the resolved display form of a scheduled day.
type DayPlan struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Color  string `json:"color"`
	IsRest bool   `json:"isRest"`
}

// EnsureSeed populates the workout type catalog and the 7-day schedule the
// first time the app runs. Safe to call on every start.
func EnsureSeed(db *gorm.DB) error {
	var n int64
	if err := db.Model(&model.WorkoutType{}).Count(&n).Error; err != nil {
		return fmt.Errorf("counting workout types: %w", err)
	}
	if n == 0 {
		seed := []model.WorkoutType{
			{Key: "push", Name: "Push + Core", Emoji: "💪", Color: "orange", SortOrder: 1},
			{Key: "pull", Name: "Pull", Emoji: "🏋️", Color: "blue", SortOrder: 2},
			{Key: "legs", Name: "Legs", Emoji: "🦵", Color: "purple", SortOrder: 3},
			{Key: "upper", Name: "Upper Var.", Emoji: "🔄", Color: "teal", SortOrder: 4},
			{Key: "cardio", Name: "Cardio", Emoji: "🏃", Color: "green", SortOrder: 5},
			{Key: "light_cardio", Name: "Light Cardio", Emoji: "🚶", Color: "green", SortOrder: 6},
			{Key: "rest", Name: "Rest", Emoji: "😴", Color: "gray", IsRest: true, SortOrder: 7},
		}
		if err := db.Create(&seed).Error; err != nil {
			return fmt.Errorf("seeding workout types: %w", err)
		}
	}

	if err := db.Model(&model.ScheduleDay{}).Count(&n).Error; err != nil {
		return fmt.Errorf("counting schedule days: %w", err)
	}
	if n == 0 {
		defaults := []string{"push", "pull", "legs", "upper", "cardio", "rest", "rest"}
		rows := make([]model.ScheduleDay, len(defaults))
		for i, key := range defaults {
			rows[i] = model.ScheduleDay{DayOfWeek: i, WorkoutType: key}
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seeding weekly schedule: %w", err)
		}
	}

	return nil
}

// WeeklySchedule returns the 7-day schedule resolved against the workout
// type catalog, keyed by weekday (0=Monday..6=Sunday).
func WeeklySchedule(db *gorm.DB) (map[int]DayPlan, error) {
	var days []model.ScheduleDay
	if err := db.Order("day_of_week").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("loading weekly schedule: %w", err)
	}

	types, err := typeMap(db)
	if err != nil {
		return nil, err
	}

	out := make(map[int]DayPlan, len(days))
	for _, d := range days {
		out[d.DayOfWeek] = resolvePlan(d.WorkoutType, types)
	}
	return out, nil
}

func typeMap(db *gorm.DB) (map[string]model.WorkoutType, error) {
	var types []model.WorkoutType
	if err := db.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("loading workout types: %w", err)
	}
	m := make(map[string]model.WorkoutType, len(types))
	for _, t := range types {
		m[t.Key] = t
	}
	return m, nil
}

// resolvePlan joins a schedule entry against the catalog. A missing catalog
// entry degrades gracefully: the raw key becomes the display name.
func resolvePlan(key string, types map[string]model.WorkoutType) DayPlan {
	if wt, ok := types[key]; ok {
		return DayPlan{Type: wt.Key, Name: wt.Name, Emoji: wt.Emoji, Color: wt.Color, IsRest: wt.IsRest}
	}
	name := cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
	return DayPlan{Type: key, Name: name, Color: defaultColor, IsRest: key == RestKey}
}

// UpdateDay assigns a workout type to a single weekday.
func UpdateDay(db *gorm.DB, day int, typeKey string) error {
	if day < 0 || day > 6 {
		return apierror.Validation("dayOfWeek must be between 0 and 6")
	}
	if strings.TrimSpace(typeKey) == "" {
		return apierror.Validation("typeKey is required")
	}

	var n int64
	if err := db.Model(&model.WorkoutType{}).Where("type_key = ?", typeKey).Count(&n).Error; err != nil {
		return fmt.Errorf("checking workout type: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("unknown workout type")
	}

	var row model.ScheduleDay
	if err := db.Where("day_of_week = ?", day).Attrs(model.ScheduleDay{DayOfWeek: day}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("loading schedule day: %w", err)
	}
	row.WorkoutType = typeKey
	if err := db.Save(&row).Error; err != nil {
		return fmt.Errorf("saving schedule day: %w", err)
	}
	return nil
}

// SaveFull replaces the whole weekly schedule. Exactly 7 entries are
// required and the replace is all-or-nothing.
func SaveFull(db *gorm.DB, entries []string) error {
	if len(entries) != 7 {
		return apierror.Validation("schedule must contain exactly 7 entries")
	}
	for i, e := range entries {
		if strings.TrimSpace(e) == "" {
			return apierror.Validation(fmt.Sprintf("schedule entry for day %d is empty", i))
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, key := range entries {
			var row model.ScheduleDay
			if err := tx.Where("day_of_week = ?", i).Attrs(model.ScheduleDay{DayOfWeek: i}).FirstOrCreate(&row).Error; err != nil {
				return err
			}
			row.WorkoutType = key
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving full schedule: %w", err)
	}
	return nil
}

// Types lists the workout type catalog.
func Types(db *gorm.DB) ([]model.WorkoutType, error) {
	var types []model.WorkoutType
	if err := db.Order("sort_order, type_key").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("loading workout types: %w", err)
	}
	return types, nil
}

// CreateType adds a workout type to the catalog.
func CreateType(db *gorm.DB, wt model.WorkoutType) error {
	if !keyPattern.MatchString(wt.Key) {
		return apierror.Validation("type key must be lowercase letters, digits or underscores")
	}
	if strings.TrimSpace(wt.Name) == "" {
		return apierror.Validation("name is required")
	}
	if wt.Color == "" {
		wt.Color = defaultColor
	}

	var n int64
	if err := db.Model(&model.WorkoutType{}).Where("type_key = ?", wt.Key).Count(&n).Error; err != nil {
		return fmt.Errorf("checking workout type: %w", err)
	}
	if n > 0 {
		return apierror.Conflict("workout type already exists")
	}
	if err := db.Create(&wt).Error; err != nil {
		return fmt.Errorf("creating workout type: %w", err)
	}
	return nil
}

// TypeUpdate carries the optional fields of a partial workout type update.
// A nil field means "not provided" and is left untouched.
type TypeUpdate struct {
	Name        *string
	Emoji       *string
	Color       *string
	Description *string
	IsRest      *bool
	SortOrder   *int
}

// UpdateType applies a partial update to a catalog entry.
func UpdateType(db *gorm.DB, key string, upd TypeUpdate) error {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return apierror.Validation("name cannot be empty")
		}
		updates["name"] = *upd.Name
	}
	if upd.Emoji != nil {
		updates["emoji"] = *upd.Emoji
	}
	if upd.Color != nil {
		updates["color"] = *upd.Color
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.IsRest != nil {
		updates["is_rest"] = *upd.IsRest
	}
	if upd.SortOrder != nil {
		updates["sort_order"] = *upd.SortOrder
	}
	if len(updates) == 0 {
		return apierror.Validation("no fields to update")
	}

	res := db.Model(&model.WorkoutType{}).Where("type_key = ?", key).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating workout type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.NotFound("workout type not found")
	}
	return nil
}

// DeleteType removes a catalog entry. Built-in types and types still
// referenced by the weekly schedule or by exercises cannot be deleted.
func DeleteType(db *gorm.DB, key string) error {
	for _, b := range builtinKeys {
		if key == b {
			return apierror.Conflict("built-in workout types cannot be deleted")
		}
	}

	var n int64
	if err := db.Model(&model.WorkoutType{}).Where("type_key = ?", key).Count(&n).Error; err != nil {
		return fmt.Errorf("checking workout type: %w", err)
	}
	if n == 0 {
		return apierror.NotFound("workout type not found")
	}

	if err := db.Model(&model.ScheduleDay{}).Where("workout_type = ?", key).Count(&n).Error; err != nil {
		return fmt.Errorf("checking schedule references: %w", err)
	}
	if n > 0 {
		return apierror.Conflict("workout type is used by the weekly schedule")
	}

	if err := db.Model(&model.WorkoutExercise{}).Where("workout_type = ?", key).Count(&n).Error; err != nil {
		return fmt.Errorf("checking exercise references: %w", err)
	}
	if n > 0 {
		return apierror.Conflict("workout type has exercises attached")
	}

	if err := db.Where("type_key = ?", key).Delete(&model.WorkoutType{}).Error; err != nil {
		return fmt.Errorf("deleting workout type: %w", err)
	}
	return nil
}

// Exercises lists the routine for a workout type in display order.
func Exercises(db *gorm.DB, typeKey string) ([]model.WorkoutExercise, error) {
	var rows []model.WorkoutExercise
	if err := db.Where("workout_type = ?", typeKey).Order("exercise_order").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading exercises: %w", err)
	}
	return rows, nil
}
