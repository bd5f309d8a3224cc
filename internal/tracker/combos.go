package tracker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

var (
	comboCategories = map[string]bool{"breakfast": true, "lunch": true, "dinner": true, "snacks": true, "cheat": true}
	comboTags       = map[string]bool{"High": true, "Highest": true, "Light": true, "Max Protein": true, "Cheat": true}
	damageLevels    = map[string]bool{"low": true, "medium": true, "high": true}
)

// ComboInput is the payload for saving a meal combo.
type ComboInput struct {
	Name          string
	Emoji         string
	Category      string
	Tag           string
	DamageLevel   string
	Items         json.RawMessage
	TotalCalories int
	TotalProtein  int
	TotalCarbs    int
	TotalFat      int
	TotalFiber    int
}

// Combo is one saved combo as returned to the caller.
type Combo struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Emoji         string          `json:"emoji"`
	Category      string          `json:"category"`
	Tag           string          `json:"tag"`
	DamageLevel   string          `json:"damageLevel"`
	Items         json.RawMessage `json:"items"`
	TotalCalories int             `json:"totalCalories"`
	TotalProtein  int             `json:"totalProtein"`
	TotalCarbs    int             `json:"totalCarbs"`
	TotalFat      int             `json:"totalFat"`
	TotalFiber    int             `json:"totalFiber"`
}

// SaveCombo stores a meal combo and returns its id. Unknown categories,
// tags and damage levels degrade to their defaults rather than erroring.
func SaveCombo(db *gorm.DB, in ComboInput) (uint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return 0, apierror.Validation("combo name must be 1-100 characters")
	}
	if !comboCategories[in.Category] {
		in.Category = "breakfast"
	}
	if !comboTags[in.Tag] {
		in.Tag = ""
	}
	if !damageLevels[in.DamageLevel] {
		in.DamageLevel = ""
	}
	if in.Emoji == "" {
		in.Emoji = "🍽️"
	}
	items := in.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}

	var jb pgtype.JSONB
	if err := jb.Set([]byte(items)); err != nil {
		return 0, apierror.Validation("combo items must be valid JSON")
	}

	row := model.MealCombo{
		Name:          name,
		Emoji:         in.Emoji,
		Category:      in.Category,
		Tag:           in.Tag,
		DamageLevel:   in.DamageLevel,
		Items:         jb,
		TotalCalories: in.TotalCalories,
		TotalProtein:  in.TotalProtein,
		TotalCarbs:    in.TotalCarbs,
		TotalFat:      in.TotalFat,
		TotalFiber:    in.TotalFiber,
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("saving combo: %w", err)
	}
	return row.ID, nil
}

// Combos lists every saved combo in insertion order.
func Combos(db *gorm.DB) ([]Combo, error) {
	var rows []model.MealCombo
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading combos: %w", err)
	}

	out := make([]Combo, 0, len(rows))
	for _, r := range rows {
		items := json.RawMessage("[]")
		if r.Items.Status == pgtype.Present && len(r.Items.Bytes) > 0 {
			items = json.RawMessage(r.Items.Bytes)
		}
		out = append(out, Combo{
			ID:            r.ID,
			Name:          r.Name,
			Emoji:         r.Emoji,
			Category:      r.Category,
			Tag:           r.Tag,
			DamageLevel:   r.DamageLevel,
			Items:         items,
			TotalCalories: r.TotalCalories,
			TotalProtein:  r.TotalProtein,
			TotalCarbs:    r.TotalCarbs,
			TotalFat:      r.TotalFat,
			TotalFiber:    r.TotalFiber,
		})
	}
	return out, nil
}
