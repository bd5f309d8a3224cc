// Package tracker implements the plain CRUD surface of the API: foods,
// goals, weight, water, exercise completion, personal records, day types
// and meal combos.
package tracker

import (
	"fmt"
	"strings"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/gorm"
)

const searchLimit = 50

// AllFoods lists the whole food catalog ordered by name.
func AllFoods(db *gorm.DB) ([]model.Food, error) {
	var foods []model.Food
	if err := db.Order("name").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("loading foods: %w", err)
	}
	return foods, nil
}

// SearchFoods filters the catalog by a name fragment and an optional
// category ("all" means no filter). Results are capped.
func SearchFoods(db *gorm.DB, search, category string) ([]model.Food, error) {
	q := db.Model(&model.Food{})
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where("name LIKE ?", "%"+s+"%")
	}
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}

	var foods []model.Food
	if err := q.Order("name").Limit(searchLimit).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("searching foods: %w", err)
	}
	return foods, nil
}

// AddCustomFood creates a user-defined food and returns its id.
func AddCustomFood(db *gorm.DB, food model.Food) (uint, error) {
	food.Name = strings.TrimSpace(food.Name)
	if food.Name == "" || len(food.Name) > 255 {
		return 0, apierror.Validation("food name must be 1-255 characters")
	}
	if food.Category == "" {
		food.Category = "Custom"
	}
	if food.Serving <= 0 {
		food.Serving = 1
	}
	if food.Unit == "" {
		food.Unit = "serving"
	}
	food.IsCustom = true

	if err := db.Create(&food).Error; err != nil {
		return 0, fmt.Errorf("adding food: %w", err)
	}
	return food.ID, nil
}
