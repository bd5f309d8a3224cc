// Package api implements the named-action dispatch endpoint. Callers send
// an action name plus a JSON payload and get a JSON envelope back.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/auth"
	"github.com/fitlife/backend/internal/cache"
	"github.com/fitlife/backend/internal/database"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/logger"
	"github.com/fitlife/backend/internal/ratelimit"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler dispatches named actions. Sessions and Limiter may be nil, which
// disables the edit gate and the per-action AI limit respectively (used in
// tests).
type Handler struct {
	Sessions *auth.Sessions
	Limiter  *ratelimit.Limiter
	Cache    cache.Cache
	Clock    dateutil.Clock
	Log      logrus.FieldLogger
}

type envelope map[string]interface{}

// call carries the per-request state handed to each action.
type call struct {
	w     http.ResponseWriter
	r     *http.Request
	db    *gorm.DB
	body  []byte
	today time.Time
}

// Health serves the liveness endpoint without going through action dispatch.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	db, err := database.InitDB()
	if err != nil {
		h.log().Error("unable to connect to database: ", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{"success": false, "error": "Service temporarily unavailable"})
		return
	}
	h.health(&call{w: w, r: r, db: db, today: h.today()})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}
	if len(body) > 0 {
		var probe struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(body, &probe); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{"success": false, "error": "Invalid request"})
			return
		}
		if probe.Action != "" {
			action = probe.Action
		}
	}

	db, err := database.InitDB()
	if err != nil {
		h.log().Error("unable to connect to database: ", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{"success": false, "error": "Service temporarily unavailable"})
		return
	}

	c := &call{w: w, r: r, db: db, body: body, today: h.today()}

	switch action {
	case "health":
		h.health(c)

	// Meals
	case "logMeal":
		h.logMeal(c)
	case "getDaily":
		h.getDaily(c)
	case "updateMeal":
		h.updateMeal(c)
	case "deleteMeal", "deleteMealItem": // legacy frontend alias
		h.deleteMeal(c)
	case "clearDay":
		h.clearDay(c)

	// Foods
	case "getAllFoods":
		h.getAllFoods(c)
	case "searchFoods":
		h.searchFoods(c)
	case "addCustomFood":
		h.addCustomFood(c)

	// Goals
	case "getGoals":
		h.getGoals(c)
	case "updateGoals":
		h.updateGoals(c)

	// Weight
	case "logWeight":
		h.logWeight(c)
	case "getWeightHistory":
		h.getWeightHistory(c)

	// Exercise
	case "logExercise":
		h.logExercise(c)
	case "toggleExercise":
		h.toggleExercise(c)
	case "getExerciseLog":
		h.getExerciseLog(c)

	// PRs
	case "logPR":
		h.logPR(c)
	case "getPRLog":
		h.getPRLog(c)

	// Day types
	case "setDayType":
		h.setDayType(c)
	case "getDayTypes":
		h.getDayTypes(c)

	// Water
	case "logWater":
		h.logWater(c)
	case "getWater":
		h.getWater(c)

	// Combos
	case "saveMealCombo":
		h.saveMealCombo(c)
	case "getMealCombos":
		h.getMealCombos(c)

	// Schedule
	case "getWeeklySchedule":
		h.getWeeklySchedule(c)
	case "updateDaySchedule":
		h.updateDaySchedule(c)
	case "saveFullSchedule":
		h.saveFullSchedule(c)
	case "getWorkoutOverrides":
		h.getWorkoutOverrides(c)
	case "setWorkoutOverride":
		h.setWorkoutOverride(c)
	case "clearWorkoutOverrides":
		h.clearWorkoutOverrides(c)
	case "skipDay":
		h.skipDay(c)
	case "getStreak":
		h.getStreak(c)

	// Workout type catalog
	case "getWorkoutTypes":
		h.getWorkoutTypes(c)
	case "createWorkoutType":
		h.createWorkoutType(c)
	case "updateWorkoutType":
		h.updateWorkoutType(c)
	case "deleteWorkoutType":
		h.deleteWorkoutType(c)
	case "getWorkoutExercises":
		h.getWorkoutExercises(c)

	// AI
	case "analyzeNutrition":
		h.analyzeNutrition(c)

	// Edit gate
	case "verifyPassword":
		h.verifyPassword(c)
	case "changePassword":
		h.changePassword(c)

	default:
		h.log().WithField("action", action).Warn("unknown action attempted")
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "error": "Invalid request"})
	}
}

func (h *Handler) log() logrus.FieldLogger {
	if h.Log != nil {
		return h.Log
	}
	return logger.NewLogger()
}

func (h *Handler) today() time.Time {
	if h.Clock != nil {
		return h.Clock.Today()
	}
	return dateutil.System.Today()
}

// respond writes a success envelope or translates err into an error one.
func (h *Handler) respond(c *call, action string, result envelope, err error) {
	if err != nil {
		h.writeError(c.w, action, err)
		return
	}
	out := envelope{"success": true}
	for k, v := range result {
		out[k] = v
	}
	writeJSON(c.w, http.StatusOK, out)
}

// writeError maps typed errors to their status and code. Anything untyped
// is a storage or infrastructure failure: logged with context, surfaced as
// a generic unavailable message.
func (h *Handler) writeError(w http.ResponseWriter, action string, err error) {
	var ae *apierror.Error
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status(), envelope{"success": false, "error": ae.Message, "code": ae.Code()})
		return
	}
	h.log().WithField("action", action).Error(err)
	writeJSON(w, http.StatusServiceUnavailable, envelope{
		"success": false,
		"error":   "Service temporarily unavailable",
		"code":    "UNAVAILABLE",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decode unmarshals the request body into v, reporting a validation error
// on malformed or missing payloads.
func decode(body []byte, v interface{}) error {
	if len(body) == 0 {
		return apierror.Validation("request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apierror.Validation("malformed JSON payload")
	}
	return nil
}

// requireSession enforces the edit gate on admin actions.
func (h *Handler) requireSession(c *call, token string) error {
	if h.Sessions == nil {
		return nil
	}
	ok, err := h.Sessions.Valid(c.r.Context(), token)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Validation("a valid session token is required")
	}
	return nil
}

// dateOr returns the payload/query date or the fallback, validating format.
func (c *call) dateOr(raw string, fallback time.Time) (string, error) {
	if raw == "" {
		raw = c.r.URL.Query().Get("date")
	}
	if raw == "" {
		return dateutil.FormatDay(fallback), nil
	}
	if _, err := dateutil.ParseDay(raw); err != nil {
		return "", apierror.Validation("invalid date format (expected YYYY-MM-DD)")
	}
	return raw, nil
}

func (h *Handler) health(c *call) {
	if err := c.db.Exec("SELECT 1").Error; err != nil {
		h.log().Error("health check failed: ", err)
		writeJSON(c.w, http.StatusServiceUnavailable, envelope{
			"success":  false,
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	writeJSON(c.w, http.StatusOK, envelope{
		"success":   true,
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
