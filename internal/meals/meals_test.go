package meals

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fitlife/backend/internal/apierror"
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

func validInput() LogInput {
	return LogInput{
		Date:     "2025-06-02",
		MealType: "breakfast",
		FoodName: "Oats",
		Quantity: 1.5,
		Calories: 300,
		Protein:  10,
		Carbs:    50,
		Fat:      5,
		Fiber:    8,
	}
}

func TestLogValidation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name   string
		mutate func(*LogInput)
	}{
		{"bad date", func(in *LogInput) { in.Date = "02/06/2025" }},
		{"bad slot", func(in *LogInput) { in.MealType = "brunch" }},
		{"empty name", func(in *LogInput) { in.FoodName = "  " }},
		{"zero quantity", func(in *LogInput) { in.Quantity = 0 }},
		{"huge quantity", func(in *LogInput) { in.Quantity = 101 }},
		{"negative calories", func(in *LogInput) { in.Calories = -1 }},
		{"huge calories", func(in *LogInput) { in.Calories = 10001 }},
		{"huge protein", func(in *LogInput) { in.Protein = 1001 }},
		{"huge fiber", func(in *LogInput) { in.Fiber = 501 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := Log(db, in)
			wantKind(t, err, apierror.KindValidation)
		})
	}
}

func TestLogNormalises(t *testing.T) {
	db := newTestDB(t)

	in := validInput()
	in.MealType = "BREAKFAST"
	in.Unit = ""
	id, err := Log(db, in)
	if err != nil {
		t.Fatal(err)
	}

	var row model.MealLog
	db.First(&row, id)
	if row.MealType != "breakfast" {
		t.Errorf("meal type not lowercased: %q", row.MealType)
	}
	if row.Unit != "serving" {
		t.Errorf("expected default unit, got %q", row.Unit)
	}
}

func TestDaily(t *testing.T) {
	db := newTestDB(t)

	in := validInput()
	if _, err := Log(db, in); err != nil {
		t.Fatal(err)
	}
	in.MealType = "dinner"
	in.FoodName = "Rice"
	in.Calories = 200
	if _, err := Log(db, in); err != nil {
		t.Fatal(err)
	}

	grouped, totals, err := Daily(db, "2025-06-02")
	if err != nil {
		t.Fatal(err)
	}

	// Every slot is present, even when empty.
	for _, s := range Slots {
		if _, ok := grouped[s]; !ok {
			t.Errorf("missing slot %q", s)
		}
	}
	if len(grouped["breakfast"]) != 1 || len(grouped["dinner"]) != 1 {
		t.Errorf("unexpected grouping: %v", grouped)
	}
	if totals.Calories != 500 {
		t.Errorf("expected 500 calories, got %v", totals.Calories)
	}
	if grouped["breakfast"][0].LastModified == "" {
		t.Error("expected a version token on entries")
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	id, err := Log(db, validInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := Delete(db, int64(id)); err != nil {
		t.Fatal(err)
	}
	wantKind(t, Delete(db, int64(id)), apierror.KindNotFound)
	wantKind(t, Delete(db, 0), apierror.KindValidation)
}

func TestClearDay(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 3; i++ {
		if _, err := Log(db, validInput()); err != nil {
			t.Fatal(err)
		}
	}
	other := validInput()
	other.Date = "2025-06-03"
	if _, err := Log(db, other); err != nil {
		t.Fatal(err)
	}

	n, err := ClearDay(db, "2025-06-02")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}

	var remaining int64
	db.Model(&model.MealLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("expected 1 row left, got %d", remaining)
	}
}

func TestUpdateWithoutToken(t *testing.T) {
	db := newTestDB(t)
	id, err := Log(db, validInput())
	if err != nil {
		t.Fatal(err)
	}

	err = Update(db, UpdateInput{ID: int64(id), Quantity: 2, Calories: 600, Protein: 20, Carbs: 100, Fat: 10, Fiber: 16})
	if err != nil {
		t.Fatal(err)
	}

	var row model.MealLog
	db.First(&row, id)
	if row.Quantity != 2 || row.Calories != 600 {
		t.Errorf("update not applied: %+v", row)
	}

	wantKind(t, Update(db, UpdateInput{ID: 9999, Quantity: 1}), apierror.KindNotFound)
}

func TestUpdateTokenMatch(t *testing.T) {
	db := newTestDB(t)
	id, err := Log(db, validInput())
	if err != nil {
		t.Fatal(err)
	}

	var row model.MealLog
	db.First(&row, id)

	err = Update(db, UpdateInput{ID: int64(id), Quantity: 3, LastModified: TokenFor(row.CreatedAt)})
	if err != nil {
		t.Fatal(err)
	}
	db.First(&row, id)
	if row.Quantity != 3 {
		t.Errorf("guarded update not applied: %+v", row)
	}
}

func TestUpdateTokenMismatchWritesNothing(t *testing.T) {
	db := newTestDB(t)
	id, err := Log(db, validInput())
	if err != nil {
		t.Fatal(err)
	}

	stale := TokenFor(time.Now().Add(-time.Hour))
	err = Update(db, UpdateInput{ID: int64(id), Quantity: 3, LastModified: stale})
	wantKind(t, err, apierror.KindConflict)

	var row model.MealLog
	db.First(&row, id)
	if row.Quantity != 1.5 {
		t.Errorf("conflicting update mutated the row: %+v", row)
	}
}

func TestUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	id, err := Log(db, validInput())
	if err != nil {
		t.Fatal(err)
	}

	wantKind(t, Update(db, UpdateInput{ID: int64(id), Quantity: 0}), apierror.KindValidation)
	wantKind(t, Update(db, UpdateInput{ID: int64(id), Quantity: 1, Calories: 10001}), apierror.KindValidation)

	// Negative macros are clamped to zero rather than rejected.
	if err := Update(db, UpdateInput{ID: int64(id), Quantity: 1, Protein: -5}); err != nil {
		t.Fatal(err)
	}
	var row model.MealLog
	db.First(&row, id)
	if row.Protein != 0 {
		t.Errorf("expected protein clamped to 0, got %v", row.Protein)
	}
}
