package api

import (
	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/meals"
	"github.com/fitlife/backend/internal/tracker"
)

func (h *Handler) logMeal(c *call) {
	var p struct {
		Date     string  `json:"date"`
		MealType string  `json:"mealType"`
		FoodID   *uint   `json:"foodId"`
		FoodName string  `json:"foodName"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Fiber    float64 `json:"fiber"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "logMeal", err)
		return
	}

	id, err := meals.Log(c.db, meals.LogInput{
		Date:     p.Date,
		MealType: p.MealType,
		FoodID:   p.FoodID,
		FoodName: p.FoodName,
		Quantity: p.Quantity,
		Unit:     p.Unit,
		Calories: p.Calories,
		Protein:  p.Protein,
		Carbs:    p.Carbs,
		Fat:      p.Fat,
		Fiber:    p.Fiber,
	})
	h.respond(c, "logMeal", envelope{"id": id}, err)
}

func (h *Handler) getDaily(c *call) {
	var p struct {
		Date string `json:"date"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "getDaily", err)
			return
		}
	}
	date, err := c.dateOr(p.Date, c.today)
	if err != nil {
		h.writeError(c.w, "getDaily", err)
		return
	}

	grouped, totals, err := meals.Daily(c.db, date)
	h.respond(c, "getDaily", envelope{"meals": grouped, "totals": totals}, err)
}

func (h *Handler) updateMeal(c *call) {
	var p struct {
		ID           int64   `json:"id"`
		Quantity     float64 `json:"quantity"`
		Unit         string  `json:"unit"`
		Calories     float64 `json:"calories"`
		Protein      float64 `json:"protein"`
		Carbs        float64 `json:"carbs"`
		Fat          float64 `json:"fat"`
		Fiber        float64 `json:"fiber"`
		LastModified string  `json:"_lastModified"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "updateMeal", err)
		return
	}

	err := meals.Update(c.db, meals.UpdateInput{
		ID:           p.ID,
		Quantity:     p.Quantity,
		Unit:         p.Unit,
		Calories:     p.Calories,
		Protein:      p.Protein,
		Carbs:        p.Carbs,
		Fat:          p.Fat,
		Fiber:        p.Fiber,
		LastModified: p.LastModified,
	})
	h.respond(c, "updateMeal", nil, err)
}

func (h *Handler) deleteMeal(c *call) {
	var p struct {
		ID int64 `json:"id"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "deleteMeal", err)
		return
	}
	err := meals.Delete(c.db, p.ID)
	h.respond(c, "deleteMeal", nil, err)
}

func (h *Handler) clearDay(c *call) {
	var p struct {
		Date string `json:"date"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "clearDay", err)
			return
		}
	}
	date, err := c.dateOr(p.Date, c.today)
	if err != nil {
		h.writeError(c.w, "clearDay", err)
		return
	}

	deleted, err := meals.ClearDay(c.db, date)
	h.respond(c, "clearDay", envelope{"deleted": deleted}, err)
}

func (h *Handler) logWeight(c *call) {
	var p struct {
		Date   string  `json:"date"`
		Weight float64 `json:"weight"`
		Notes  string  `json:"notes"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "logWeight", err)
		return
	}
	err := tracker.LogWeight(c.db, p.Date, p.Weight, p.Notes)
	h.respond(c, "logWeight", nil, err)
}

func (h *Handler) getWeightHistory(c *call) {
	rows, err := tracker.WeightHistory(c.db)
	if err != nil {
		h.writeError(c.w, "getWeightHistory", err)
		return
	}

	history := make([]envelope, 0, len(rows))
	for _, r := range rows {
		history = append(history, envelope{"date": r.Date, "weight": r.Weight, "notes": r.Notes})
	}
	h.respond(c, "getWeightHistory", envelope{"history": history}, nil)
}

func (h *Handler) logExercise(c *call) {
	var p struct {
		Date          string `json:"date"`
		ExerciseIndex *int   `json:"exerciseIndex"`
		Completed     bool   `json:"completed"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "logExercise", err)
		return
	}
	if p.ExerciseIndex == nil {
		h.writeError(c.w, "logExercise", apierror.Validation("invalid exercise index"))
		return
	}
	err := tracker.SetExercise(c.db, p.Date, *p.ExerciseIndex, p.Completed)
	h.respond(c, "logExercise", nil, err)
}

func (h *Handler) toggleExercise(c *call) {
	var p struct {
		Date          string `json:"date"`
		ExerciseIndex *int   `json:"exerciseIndex"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "toggleExercise", err)
		return
	}
	if p.ExerciseIndex == nil {
		h.writeError(c.w, "toggleExercise", apierror.Validation("invalid exercise index"))
		return
	}

	completed, err := tracker.ToggleExercise(c.db, p.Date, *p.ExerciseIndex)
	h.respond(c, "toggleExercise", envelope{"completed": completed}, err)
}

func (h *Handler) getExerciseLog(c *call) {
	var p struct {
		Date string `json:"date"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "getExerciseLog", err)
			return
		}
	}
	date, err := c.dateOr(p.Date, c.today)
	if err != nil {
		h.writeError(c.w, "getExerciseLog", err)
		return
	}

	exercises, err := tracker.ExerciseLog(c.db, date)
	h.respond(c, "getExerciseLog", envelope{"exercises": exercises}, err)
}

func (h *Handler) logPR(c *call) {
	var p struct {
		ExerciseName string  `json:"exerciseName"`
		Value        float64 `json:"value"`
		PRType       string  `json:"prType"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "logPR", err)
		return
	}

	updated, err := tracker.LogPR(c.db, p.ExerciseName, p.Value, p.PRType, c.today)
	h.respond(c, "logPR", envelope{"updated": updated}, err)
}

func (h *Handler) getPRLog(c *call) {
	prs, err := tracker.PRs(c.db)
	h.respond(c, "getPRLog", envelope{"prs": prs}, err)
}

func (h *Handler) setDayType(c *call) {
	var p struct {
		Date string `json:"date"`
		Type string `json:"type"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "setDayType", err)
		return
	}
	err := tracker.SetDayType(c.db, p.Date, p.Type)
	h.respond(c, "setDayType", nil, err)
}

func (h *Handler) getDayTypes(c *call) {
	dayTypes, err := tracker.DayTypes(c.db)
	h.respond(c, "getDayTypes", envelope{"dayTypes": dayTypes}, err)
}

func (h *Handler) logWater(c *call) {
	var p struct {
		Date    string `json:"date"`
		Glasses int    `json:"glasses"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "logWater", err)
		return
	}
	err := tracker.LogWater(c.db, p.Date, p.Glasses)
	h.respond(c, "logWater", nil, err)
}

func (h *Handler) getWater(c *call) {
	var p struct {
		Date string `json:"date"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "getWater", err)
			return
		}
	}
	date, err := c.dateOr(p.Date, c.today)
	if err != nil {
		h.writeError(c.w, "getWater", err)
		return
	}

	glasses, err := tracker.GetWater(c.db, date)
	h.respond(c, "getWater", envelope{"glasses": glasses}, err)
}
