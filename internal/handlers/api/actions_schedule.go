package api

import (
	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/model"
	"github.com/fitlife/backend/internal/schedule"
	"github.com/fitlife/backend/internal/streak"
)

func (h *Handler) getWeeklySchedule(c *call) {
	sched, err := schedule.WeeklySchedule(c.db)
	h.respond(c, "getWeeklySchedule", envelope{"schedule": sched}, err)
}

func (h *Handler) updateDaySchedule(c *call) {
	var p struct {
		DayOfWeek *int   `json:"dayOfWeek"`
		TypeKey   string `json:"typeKey"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "updateDaySchedule", err)
		return
	}
	if p.DayOfWeek == nil {
		h.writeError(c.w, "updateDaySchedule", apierror.Validation("dayOfWeek is required"))
		return
	}
	err := schedule.UpdateDay(c.db, *p.DayOfWeek, p.TypeKey)
	h.respond(c, "updateDaySchedule", nil, err)
}

func (h *Handler) saveFullSchedule(c *call) {
	var p struct {
		Schedule     []string `json:"schedule"`
		SessionToken string   `json:"sessionToken"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "saveFullSchedule", err)
		return
	}
	if err := h.requireSession(c, p.SessionToken); err != nil {
		h.writeError(c.w, "saveFullSchedule", err)
		return
	}
	err := schedule.SaveFull(c.db, p.Schedule)
	h.respond(c, "saveFullSchedule", nil, err)
}

func (h *Handler) getWorkoutOverrides(c *call) {
	overrides, err := schedule.Overrides(c.db, c.today)
	h.respond(c, "getWorkoutOverrides", envelope{"overrides": overrides}, err)
}

func (h *Handler) setWorkoutOverride(c *call) {
	var p struct {
		Date        string `json:"date"`
		WorkoutType string `json:"workoutType"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "setWorkoutOverride", err)
		return
	}
	err := schedule.SetOverride(c.db, p.Date, p.WorkoutType)
	h.respond(c, "setWorkoutOverride", nil, err)
}

func (h *Handler) clearWorkoutOverrides(c *call) {
	err := schedule.ClearOverrides(c.db, c.today)
	h.respond(c, "clearWorkoutOverrides", nil, err)
}

func (h *Handler) skipDay(c *call) {
	var p struct {
		Date string `json:"date"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "skipDay", err)
			return
		}
	}

	day := c.today
	if p.Date != "" {
		parsed, err := dateutil.ParseDay(p.Date)
		if err != nil {
			h.writeError(c.w, "skipDay", apierror.Validation("invalid date format (expected YYYY-MM-DD)"))
			return
		}
		day = parsed
	}

	overrides, err := schedule.SkipDay(c.db, day)
	h.respond(c, "skipDay", envelope{"overrides": overrides}, err)
}

func (h *Handler) getStreak(c *call) {
	n, err := streak.Current(c.db, c.today)
	h.respond(c, "getStreak", envelope{"streak": n}, err)
}

func (h *Handler) getWorkoutTypes(c *call) {
	types, err := schedule.Types(c.db)
	if err != nil {
		h.writeError(c.w, "getWorkoutTypes", err)
		return
	}

	out := make([]envelope, 0, len(types))
	for _, t := range types {
		out = append(out, envelope{
			"key":         t.Key,
			"name":        t.Name,
			"emoji":       t.Emoji,
			"color":       t.Color,
			"description": t.Description,
			"isRest":      t.IsRest,
			"sortOrder":   t.SortOrder,
		})
	}
	h.respond(c, "getWorkoutTypes", envelope{"types": out}, nil)
}

func (h *Handler) createWorkoutType(c *call) {
	var p struct {
		Key          string `json:"key"`
		Name         string `json:"name"`
		Emoji        string `json:"emoji"`
		Color        string `json:"color"`
		Description  string `json:"description"`
		IsRest       bool   `json:"isRest"`
		SortOrder    int    `json:"sortOrder"`
		SessionToken string `json:"sessionToken"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "createWorkoutType", err)
		return
	}
	if err := h.requireSession(c, p.SessionToken); err != nil {
		h.writeError(c.w, "createWorkoutType", err)
		return
	}

	err := schedule.CreateType(c.db, model.WorkoutType{
		Key:         p.Key,
		Name:        p.Name,
		Emoji:       p.Emoji,
		Color:       p.Color,
		Description: p.Description,
		IsRest:      p.IsRest,
		SortOrder:   p.SortOrder,
	})
	h.respond(c, "createWorkoutType", nil, err)
}

func (h *Handler) updateWorkoutType(c *call) {
	var p struct {
		Key          string  `json:"key"`
		Name         *string `json:"name"`
		Emoji        *string `json:"emoji"`
		Color        *string `json:"color"`
		Description  *string `json:"description"`
		IsRest       *bool   `json:"isRest"`
		SortOrder    *int    `json:"sortOrder"`
		SessionToken string  `json:"sessionToken"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "updateWorkoutType", err)
		return
	}
	if err := h.requireSession(c, p.SessionToken); err != nil {
		h.writeError(c.w, "updateWorkoutType", err)
		return
	}

	err := schedule.UpdateType(c.db, p.Key, schedule.TypeUpdate{
		Name:        p.Name,
		Emoji:       p.Emoji,
		Color:       p.Color,
		Description: p.Description,
		IsRest:      p.IsRest,
		SortOrder:   p.SortOrder,
	})
	h.respond(c, "updateWorkoutType", nil, err)
}

func (h *Handler) deleteWorkoutType(c *call) {
	var p struct {
		Key          string `json:"key"`
		SessionToken string `json:"sessionToken"`
	}
	if err := decode(c.body, &p); err != nil {
		h.writeError(c.w, "deleteWorkoutType", err)
		return
	}
	if err := h.requireSession(c, p.SessionToken); err != nil {
		h.writeError(c.w, "deleteWorkoutType", err)
		return
	}
	err := schedule.DeleteType(c.db, p.Key)
	h.respond(c, "deleteWorkoutType", nil, err)
}

func (h *Handler) getWorkoutExercises(c *call) {
	var p struct {
		WorkoutType string `json:"workoutType"`
	}
	if len(c.body) > 0 {
		if err := decode(c.body, &p); err != nil {
			h.writeError(c.w, "getWorkoutExercises", err)
			return
		}
	}
	if p.WorkoutType == "" {
		p.WorkoutType = c.r.URL.Query().Get("workoutType")
	}
	if p.WorkoutType == "" {
		h.writeError(c.w, "getWorkoutExercises", apierror.Validation("workoutType is required"))
		return
	}

	rows, err := schedule.Exercises(c.db, p.WorkoutType)
	if err != nil {
		h.writeError(c.w, "getWorkoutExercises", err)
		return
	}

	out := make([]envelope, 0, len(rows))
	for _, e := range rows {
		out = append(out, envelope{
			"name":        e.Name,
			"sets":        e.Sets,
			"reps":        e.Reps,
			"rest":        e.Rest,
			"notes":       e.Notes,
			"calories":    e.Calories,
			"isChallenge": e.IsChallenge,
			"prType":      e.PRType,
			"prUnit":      e.PRUnit,
			"isRest":      e.IsRest,
			"isOptional":  e.IsOptional,
		})
	}
	h.respond(c, "getWorkoutExercises", envelope{"exercises": out}, nil)
}
