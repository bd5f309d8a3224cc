package api

import (
	"encoding/json"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/auth"
	"github.com/fitlife/backend/internal/middleware"
	"github.com/fitlife/backend/internal/model"
	"github.com/fitlife/backend/internal/nutrition"
	"github.com/fitlife/backend/internal/tracker"
)

const aiRateLimit = 10 // requests per minute per IP, stricter than the global limit

func foodEnvelope(f model.Food) envelope {
	return envelope{
		"id":       f.ID,
		"name":     f.Name,
		"category": f.Category,
		"calories": f.Calories,
		"protein":  f.Protein,
		"carbs":    f.Carbs,
		"fat":      f.Fat,
		"fiber":    f.Fiber,
		"serving":  f.Serving,
		"unit":     f.Unit,
	}
}

func (h *Handler) getAllFoods(c *call) {
	foods, err := tracker.AllFoods(c.db)
	if err != nil {
		h.writeError(c.w, "getAllFoods", err)
		return
	}

	out := make([]envelope, 0, len(foods))
	for _, f := range foods {
		out = append(out, foodEnvelope(f))
	}
	h.respond(c, "getAllFoods", envelope{"foods": out}, nil)
}

func (h *Handler) searchFoods(c *call) {
	search := c.r.URL.Query().Get("search")
	category := c.r.URL.Query().Get("category")
	if len(c.body) > 0 {
		var p struct {
			Search   string `json:"search"`
			Category string `json:"category"`
		}
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "searchFoods", err)
			return
		}
		if p.Search != "" {
			search = p.Search
		}
		if p.Category != "" {
			category = p.Category
		}
	}

	foods, err := tracker.SearchFoods(c.db, search, category)
	if err != nil {
		h.writeError(c.w, "searchFoods", err)
		return
	}

	out := make([]envelope, 0, len(foods))
	for _, f := range foods {
		out = append(out, foodEnvelope(f))
	}
	h.respond(c, "searchFoods", envelope{"foods": out}, nil)
}

type foodPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Serving  float64 `json:"serving"`
	Unit     string  `json:"unit"`
}

func (h *Handler) addCustomFood(c *call) {
	// The payload may nest the food under "food" or carry it at top level.
	var p struct {
		Food *foodPayload `json:"food"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "addCustomFood", err)
		return
	}
	food := p.Food
	if food == nil {
		food = &foodPayload{}
		if err := decode(c.body, food); err != nil {
			h.writeError(c.w, "addCustomFood", err)
			return
		}
	}

	id, err := tracker.AddCustomFood(c.db, model.Food{
		Name:     food.Name,
		Category: food.Category,
		Calories: food.Calories,
		Protein:  food.Protein,
		Carbs:    food.Carbs,
		Fat:      food.Fat,
		Fiber:    food.Fiber,
		Serving:  food.Serving,
		Unit:     food.Unit,
	})
	h.respond(c, "addCustomFood", envelope{"id": id}, err)
}

func (h *Handler) getGoals(c *call) {
	g, err := tracker.GetGoals(c.db)
	if err != nil {
		h.writeError(c.w, "getGoals", err)
		return
	}
	h.respond(c, "getGoals", envelope{"goals": envelope{
		"calories":     g.Calories,
		"protein":      g.Protein,
		"carbs":        g.Carbs,
		"fat":          g.Fat,
		"fiber":        g.Fiber,
		"targetWeight": g.TargetWeight,
	}}, nil)
}

func (h *Handler) updateGoals(c *call) {
	type goalsPayload struct {
		Calories     int     `json:"calories"`
		Protein      int     `json:"protein"`
		Carbs        int     `json:"carbs"`
		Fat          int     `json:"fat"`
		Fiber        int     `json:"fiber"`
		TargetWeight float64 `json:"targetWeight"`
	}
	var p struct {
		Goals *goalsPayload `json:"goals"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "updateGoals", err)
		return
	}
	goals := p.Goals
	if goals == nil {
		goals = &goalsPayload{}
		if err := decode(c.body, goals); err != nil {
			h.writeError(c.w, "updateGoals", err)
			return
		}
	}

	err := tracker.UpdateGoals(c.db, model.Goals{
		Calories:     goals.Calories,
		Protein:      goals.Protein,
		Carbs:        goals.Carbs,
		Fat:          goals.Fat,
		Fiber:        goals.Fiber,
		TargetWeight: goals.TargetWeight,
	})
	h.respond(c, "updateGoals", nil, err)
}

type comboPayload struct {
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

func (h *Handler) saveMealCombo(c *call) {
	var p struct {
		Combo *comboPayload `json:"combo"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "saveMealCombo", err)
		return
	}
	combo := p.Combo
	if combo == nil {
		combo = &comboPayload{}
		if err := decode(c.body, combo); err != nil {
			h.writeError(c.w, "saveMealCombo", err)
			return
		}
	}

	id, err := tracker.SaveCombo(c.db, tracker.ComboInput{
		Name:          combo.Name,
		Emoji:         combo.Emoji,
		Category:      combo.Category,
		Tag:           combo.Tag,
		DamageLevel:   combo.DamageLevel,
		Items:         combo.Items,
		TotalCalories: combo.TotalCalories,
		TotalProtein:  combo.TotalProtein,
		TotalCarbs:    combo.TotalCarbs,
		TotalFat:      combo.TotalFat,
		TotalFiber:    combo.TotalFiber,
	})
	h.respond(c, "saveMealCombo", envelope{"id": id}, err)
}

func (h *Handler) getMealCombos(c *call) {
	combos, err := tracker.Combos(c.db)
	h.respond(c, "getMealCombos", envelope{"combos": combos}, err)
}

func (h *Handler) analyzeNutrition(c *call) {
	var p struct {
		Query string `json:"query"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "analyzeNutrition", err)
		return
	}

	// AI calls are limited more strictly than the rest of the API.
	if h.Limiter != nil {
		ip := middleware.ClientIP(c.r)
		if !h.Limiter.Allow(c.r.Context(), "ai_"+ip, aiRateLimit, time.Minute) {
			writeJSON(c.w, 429, envelope{"success": false, "error": "Rate limit exceeded. Please slow down."})
			return
		}
	}

	result, err := nutrition.Analyze(c.r.Context(), h.Cache, p.Query)
	h.respond(c, "analyzeNutrition", envelope{"data": result}, err)
}

func (h *Handler) verifyPassword(c *call) {
	var p struct {
		Password string `json:"password"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "verifyPassword", err)
		return
	}
	if h.Sessions == nil {
		h.writeError(c.w, "verifyPassword", apierror.Unavailable("edit sessions are not configured"))
		return
	}

	token, err := auth.VerifyPassword(c.r.Context(), c.db, h.Sessions, p.Password)
	h.respond(c, "verifyPassword", envelope{"token": token}, err)
}

func (h *Handler) changePassword(c *call) {
	var p struct {
		SessionToken string `json:"sessionToken"`
		NewPassword  string `json:"newPassword"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "changePassword", err)
		return
	}
	if h.Sessions == nil {
		h.writeError(c.w, "changePassword", apierror.Unavailable("edit sessions are not configured"))
		return
	}

	err := auth.ChangePassword(c.r.Context(), c.db, h.Sessions, p.SessionToken, p.NewPassword)
	h.respond(c, "changePassword", nil, err)
}
