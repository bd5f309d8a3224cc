package model

import (
	"time"

	"github.com/jackc/pgtype"
)

// Food is one entry in the food catalog, built-in or user-added.
type Food struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;index"`
	Category  string `gorm:"size:100;index"`
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	Fiber     float64
	Serving   float64 `gorm:"default:1"`
	Unit      string  `gorm:"size:50;default:serving"`
	IsCustom  bool
	CreatedAt time.Time
}

// MealLog is one logged food item. CreatedAt doubles as the optimistic
// concurrency token for guarded edits.
type MealLog struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"size:10;index"`
	MealType  string `gorm:"size:20;index"`
	FoodID    *uint
	FoodName  string `gorm:"size:255"`
	Quantity  float64
	Unit      string `gorm:"size:50"`
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	Fiber     float64
	CreatedAt time.Time
}

// Goals holds the single row of daily macro targets.
type Goals struct {
	ID           uint `gorm:"primaryKey"`
	Calories     int
	Protein      int
	Carbs        int
	Fat          int
	Fiber        int
	TargetWeight float64
	UpdatedAt    time.Time
}

// WeightLog is one body-weight reading, at most one per day.
type WeightLog struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"size:10;uniqueIndex"`
	Weight    float64
	Notes     string
	CreatedAt time.Time
}

// ExerciseLog marks a single exercise slot as done or not for a day.
type ExerciseLog struct {
	ID            uint   `gorm:"primaryKey"`
	Date          string `gorm:"size:10;uniqueIndex:idx_exercise_day"`
	ExerciseIndex int    `gorm:"uniqueIndex:idx_exercise_day"`
	Completed     bool
	CreatedAt     time.Time
}

// PRLog is a personal record, one row per exercise name.
type PRLog struct {
	ID           uint   `gorm:"primaryKey"`
	ExerciseName string `gorm:"size:100;uniqueIndex"`
	Value        float64
	PRType       string `gorm:"size:10;default:reps"`
	AchievedDate string `gorm:"size:20"`
	UpdatedAt    time.Time
}

// DayType tags a date as a normal, light or cheat day.
type DayType struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"size:10;uniqueIndex"`
	Type      string `gorm:"size:10;default:normal"`
	CreatedAt time.Time
}

// WaterLog is the glasses-of-water count for a day.
type WaterLog struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"size:10;uniqueIndex"`
	Glasses   int
	CreatedAt time.Time
}

// MealCombo is a saved multi-item meal with precomputed totals.
type MealCombo struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100"`
	Emoji         string `gorm:"size:10"`
	Category      string `gorm:"size:20;default:breakfast"`
	Tag           string `gorm:"size:50"`
	DamageLevel   string `gorm:"size:10"`
	Items         pgtype.JSONB `gorm:"type:jsonb;default:'[]'"`
	TotalCalories int
	TotalProtein  int
	TotalCarbs    int
	TotalFat      int
	TotalFiber    int
	CreatedAt     time.Time
}

// AppSetting is a key/value row for app-level settings such as the
// edit password hash.
type AppSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"column:setting_key;size:50;uniqueIndex"`
	Value     string `gorm:"column:setting_value"`
	UpdatedAt time.Time
}

// WorkoutType is a named workout category in the catalog.
type WorkoutType struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"column:type_key;size:50;uniqueIndex"`
	Name        string `gorm:"size:100"`
	Emoji       string `gorm:"size:10"`
	Color       string `gorm:"size:50;default:gray"`
	Description string
	IsRest      bool
	SortOrder   int
	CreatedAt   time.Time
}

// ScheduleDay maps a weekday (0=Monday..6=Sunday) to a workout type key.
type ScheduleDay struct {
	ID          uint   `gorm:"primaryKey"`
	DayOfWeek   int    `gorm:"uniqueIndex"`
	WorkoutType string `gorm:"size:50"`
}

// WorkoutOverride is a date-specific exception to the weekly schedule.
type WorkoutOverride struct {
	ID          uint   `gorm:"primaryKey"`
	Date        string `gorm:"size:10;uniqueIndex"`
	WorkoutType string `gorm:"size:50"`
	CreatedAt   time.Time
}

// WorkoutExercise is one exercise in a workout type's routine.
type WorkoutExercise struct {
	ID            uint   `gorm:"primaryKey"`
	WorkoutType   string `gorm:"size:50;index"`
	ExerciseOrder int
	Name          string `gorm:"size:255"`
	Sets          string `gorm:"size:50"`
	Reps          string `gorm:"size:50"`
	Rest          string `gorm:"size:50"`
	Notes         string
	Calories      int
	IsChallenge   bool
	PRType        string `gorm:"size:10"`
	PRUnit        string `gorm:"size:20"`
	IsRest        bool
	IsOptional    bool
	CreatedAt     time.Time
}

// All returns every model for schema migration.
func All() []interface{} {
	return []interface{}{
		&Food{}, &MealLog{}, &Goals{}, &WeightLog{}, &ExerciseLog{},
		&PRLog{}, &DayType{}, &WaterLog{}, &MealCombo{}, &AppSetting{},
		&WorkoutType{}, &ScheduleDay{}, &WorkoutOverride{}, &WorkoutExercise{},
	}
}
