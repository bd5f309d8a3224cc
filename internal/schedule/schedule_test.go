package schedule

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := EnsureSeed(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return db
}

func wantKind(t *testing.T, err error, kind apierror.Kind) {
	t.Helper()
	var ae *apierror.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected api error, got %v", err)
	}
	if ae.Kind != kind {
		t.Fatalf("expected error kind %v, got %v (%s)", kind, ae.Kind, ae.Message)
	}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.ParseDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEnsureSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 2; i++ {
		if err := EnsureSeed(db); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	var types, days int64
	db.Model(&model.WorkoutType{}).Count(&types)
	db.Model(&model.ScheduleDay{}).Count(&days)
	if types != 7 {
		t.Errorf("expected 7 workout types, got %d", types)
	}
	if days != 7 {
		t.Errorf("expected 7 schedule days, got %d", days)
	}
}

func TestWeeklySchedule(t *testing.T) {
	db := seededDB(t)

	week, err := WeeklySchedule(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if week[0].Type != "push" || week[0].Name != "Push + Core" {
		t.Errorf("unexpected Monday plan: %+v", week[0])
	}
	if !week[5].IsRest || !week[6].IsRest {
		t.Errorf("expected weekend rest, got %+v / %+v", week[5], week[6])
	}
}

func TestWeeklyScheduleUnknownTypeFallsBack(t *testing.T) {
	db := seededDB(t)
	db.Model(&model.ScheduleDay{}).Where("day_of_week = ?", 2).Update("workout_type", "yoga_flow")

	week, err := WeeklySchedule(db)
	if err != nil {
		t.Fatal(err)
	}
	got := week[2]
	if got.Type != "yoga_flow" || got.Name != "Yoga Flow" || got.Color != "gray" || got.IsRest {
		t.Errorf("unexpected fallback plan: %+v", got)
	}
}

func TestUpdateDay(t *testing.T) {
	db := seededDB(t)

	if err := UpdateDay(db, 0, "cardio"); err != nil {
		t.Fatal(err)
	}
	week, _ := WeeklySchedule(db)
	if week[0].Type != "cardio" {
		t.Errorf("expected cardio on Monday, got %s", week[0].Type)
	}

	wantKind(t, UpdateDay(db, 7, "cardio"), apierror.KindValidation)
	wantKind(t, UpdateDay(db, 0, ""), apierror.KindValidation)
	wantKind(t, UpdateDay(db, 0, "swimming"), apierror.KindNotFound)
}

func TestSaveFull(t *testing.T) {
	db := seededDB(t)

	err := SaveFull(db, []string{"legs", "legs", "legs", "legs", "legs", "rest", "rest"})
	if err != nil {
		t.Fatal(err)
	}
	week, _ := WeeklySchedule(db)
	for i := 0; i < 5; i++ {
		if week[i].Type != "legs" {
			t.Errorf("day %d: expected legs, got %s", i, week[i].Type)
		}
	}

	// Wrong length leaves the stored schedule untouched.
	wantKind(t, SaveFull(db, []string{"push", "pull"}), apierror.KindValidation)
	wantKind(t, SaveFull(db, []string{"push", "", "legs", "upper", "cardio", "rest", "rest"}), apierror.KindValidation)
	week, _ = WeeklySchedule(db)
	if week[0].Type != "legs" {
		t.Errorf("failed save mutated schedule: got %s", week[0].Type)
	}
}

func TestCreateType(t *testing.T) {
	db := seededDB(t)

	err := CreateType(db, model.WorkoutType{Key: "yoga", Name: "Yoga", Emoji: "🧘"})
	if err != nil {
		t.Fatal(err)
	}

	types, _ := Types(db)
	if len(types) != 8 {
		t.Fatalf("expected 8 types, got %d", len(types))
	}

	wantKind(t, CreateType(db, model.WorkoutType{Key: "yoga", Name: "Yoga"}), apierror.KindConflict)
	wantKind(t, CreateType(db, model.WorkoutType{Key: "Yoga!", Name: "Yoga"}), apierror.KindValidation)
	wantKind(t, CreateType(db, model.WorkoutType{Key: "pilates", Name: "  "}), apierror.KindValidation)
}

func TestUpdateType(t *testing.T) {
	db := seededDB(t)

	name := "Push Day"
	color := "red"
	if err := UpdateType(db, "push", TypeUpdate{Name: &name, Color: &color}); err != nil {
		t.Fatal(err)
	}

	var wt model.WorkoutType
	db.Where("type_key = ?", "push").First(&wt)
	if wt.Name != "Push Day" || wt.Color != "red" {
		t.Errorf("partial update not applied: %+v", wt)
	}
	if wt.Emoji != "💪" {
		t.Errorf("untouched field changed: %q", wt.Emoji)
	}

	wantKind(t, UpdateType(db, "push", TypeUpdate{}), apierror.KindValidation)
	wantKind(t, UpdateType(db, "nope", TypeUpdate{Name: &name}), apierror.KindNotFound)
	empty := " "
	wantKind(t, UpdateType(db, "push", TypeUpdate{Name: &empty}), apierror.KindValidation)
}

func TestDeleteType(t *testing.T) {
	db := seededDB(t)

	wantKind(t, DeleteType(db, "rest"), apierror.KindConflict)
	wantKind(t, DeleteType(db, "nope"), apierror.KindNotFound)

	// Referenced by the weekly schedule.
	if err := CreateType(db, model.WorkoutType{Key: "yoga", Name: "Yoga"}); err != nil {
		t.Fatal(err)
	}
	if err := UpdateDay(db, 0, "yoga"); err != nil {
		t.Fatal(err)
	}
	wantKind(t, DeleteType(db, "yoga"), apierror.KindConflict)
	if err := UpdateDay(db, 0, "push"); err != nil {
		t.Fatal(err)
	}

	// Referenced by exercises.
	db.Create(&model.WorkoutExercise{WorkoutType: "yoga", Name: "Sun Salutation"})
	wantKind(t, DeleteType(db, "yoga"), apierror.KindConflict)
	db.Where("workout_type = ?", "yoga").Delete(&model.WorkoutExercise{})

	if err := DeleteType(db, "yoga"); err != nil {
		t.Fatal(err)
	}
}

func TestOverridesPurgeLastWeek(t *testing.T) {
	db := seededDB(t)
	today := mustDay(t, "2025-06-04") // Wednesday

	db.Create(&model.WorkoutOverride{Date: "2025-05-28", WorkoutType: "cardio"}) // previous week
	db.Create(&model.WorkoutOverride{Date: "2025-06-05", WorkoutType: "cardio"})

	got, err := Overrides(db, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["2025-06-05"] != "cardio" {
		t.Errorf("unexpected overrides: %v", got)
	}

	var stale int64
	db.Model(&model.WorkoutOverride{}).Where("date = ?", "2025-05-28").Count(&stale)
	if stale != 0 {
		t.Error("expired override was not purged")
	}
}

func TestSetAndClearOverrides(t *testing.T) {
	db := seededDB(t)
	today := mustDay(t, "2025-06-02")

	wantKind(t, SetOverride(db, "2025-6-2", "cardio"), apierror.KindValidation)
	wantKind(t, SetOverride(db, "2025-06-03", " "), apierror.KindValidation)

	if err := SetOverride(db, "2025-06-03", "cardio"); err != nil {
		t.Fatal(err)
	}
	if err := SetOverride(db, "2025-06-03", "legs"); err != nil {
		t.Fatal(err)
	}

	got, _ := Overrides(db, today)
	if got["2025-06-03"] != "legs" {
		t.Errorf("upsert did not replace: %v", got)
	}

	if err := ClearOverrides(db, today); err != nil {
		t.Fatal(err)
	}
	got, _ = Overrides(db, today)
	if len(got) != 0 {
		t.Errorf("expected no overrides after clear, got %v", got)
	}
}

func TestEffectiveType(t *testing.T) {
	db := seededDB(t)
	tuesday := mustDay(t, "2025-06-03")

	got, err := EffectiveType(db, tuesday)
	if err != nil {
		t.Fatal(err)
	}
	if got != "pull" {
		t.Errorf("expected pull from weekly schedule, got %s", got)
	}

	if err := SetOverride(db, "2025-06-03", "cardio"); err != nil {
		t.Fatal(err)
	}
	got, _ = EffectiveType(db, tuesday)
	if got != "cardio" {
		t.Errorf("expected override to win, got %s", got)
	}
}

func TestEffectiveTypeUnseededDefaultsToRest(t *testing.T) {
	db := newTestDB(t)
	got, err := EffectiveType(db, mustDay(t, "2025-06-03"))
	if err != nil {
		t.Fatal(err)
	}
	if got != RestKey {
		t.Errorf("expected rest for unseeded schedule, got %s", got)
	}
}

func TestSkipDayRejectsWeekend(t *testing.T) {
	db := seededDB(t)
	for _, date := range []string{"2025-06-07", "2025-06-08"} {
		_, err := SkipDay(db, mustDay(t, date))
		wantKind(t, err, apierror.KindValidation)
	}
}

func TestSkipDayShiftsWeek(t *testing.T) {
	db := seededDB(t)

	got, err := SkipDay(db, mustDay(t, "2025-06-02")) // Monday
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"2025-06-02": "rest",
		"2025-06-03": "push",
		"2025-06-04": "pull",
		"2025-06-05": "legs",
		"2025-06-06": "upper",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d overrides, got %v", len(want), got)
	}
	for date, typ := range want {
		if got[date] != typ {
			t.Errorf("%s: expected %s, got %s", date, typ, got[date])
		}
	}
}

func TestSkipDayOnFriday(t *testing.T) {
	db := seededDB(t)

	got, err := SkipDay(db, mustDay(t, "2025-06-06"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["2025-06-06"] != "rest" {
		t.Errorf("expected only Friday set to rest, got %v", got)
	}
}

func TestSkipDayCompounds(t *testing.T) {
	db := seededDB(t)

	if _, err := SkipDay(db, mustDay(t, "2025-06-02")); err != nil {
		t.Fatal(err)
	}
	got, err := SkipDay(db, mustDay(t, "2025-06-03"))
	if err != nil {
		t.Fatal(err)
	}

	// The second skip shifts the already shifted week, not the defaults.
	want := map[string]string{
		"2025-06-02": "rest",
		"2025-06-03": "rest",
		"2025-06-04": "push",
		"2025-06-05": "pull",
		"2025-06-06": "legs",
	}
	for date, typ := range want {
		if got[date] != typ {
			t.Errorf("%s: expected %s, got %s", date, typ, got[date])
		}
	}
}
