package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lg/lifestyle-score-api/engine"
)

// computeScoreRequest is the request body for POST /api/lifestyle-score/compute.
type computeScoreRequest struct {
	Profile engine.UserProfile  `json:"profile"`
	Date    string              `json:"date"`
	Meals   []engine.Meal       `json:"meals"`
	Actuals engine.DailyActuals `json:"actuals"`
}

// computeLifestyleScore scores a day entirely from the request body. Nothing
// is read from or written to the database.
// POST /api/lifestyle-score/compute.
func (h *Handler) computeLifestyleScore(c *gin.Context) {
	var body computeScoreRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := body.Profile.Normalize()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDateParam(body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	for i, m := range body.Meals {
		mt, err := engine.ParseMealType(string(m.MealType))
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		body.Meals[i].MealType = mt
	}

	summary := engine.DailyMealSummary{Date: date, Meals: body.Meals}
	c.JSON(http.StatusOK, h.calc.Score(profile, summary, body.Actuals))
}

// scoreDay computes a fresh score for ?date= (default today) from the stored
// profile, meals and daily actuals, appends it to lifestyle_scores, and
// returns it. Missing actuals score as an idle day rather than failing.
// POST /api/lifestyle-score.
func (h *Handler) scoreDay(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	dateStr := date.Format("2006-01-02")

	stored, err := queryOne[userProfile](c, h.db,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	profile, ok := stored.engineProfile()
	if !ok {
		apiError(c, http.StatusConflict, "profile is incomplete; set age, biological_sex, height_cm, weight_kg, goal and activity_level")
		return
	}

	meals, err := queryMany[meal](c, h.db,
		`SELECT * FROM meals
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at, id`,
		pgx.NamedArgs{"userID": userID, "date": dateStr})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	actuals, err := queryOne[dailyActuals](c, h.db,
		"SELECT * FROM daily_actuals WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": dateStr})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily actuals")
		return
	}

	summary := engine.DailyMealSummary{Date: date, Meals: engineMeals(meals)}
	score := h.calc.Score(profile, summary, actuals.engineActuals())

	rec := newScoreRecord(uuid.New().String(), userID, score)
	saved, err := queryOne[lifestyleScoreRecord](c, h.db,
		`INSERT INTO lifestyle_scores (
			id, user_id, date, overall_score,
			nutrition_score, activity_score, sleep_score, hydration_score,
			consistency_score, additional_score,
			calorie_adherence, macro_balance, steps_score, workout_score,
			sleep_duration, bedtime_consistency, computed_at)
		 VALUES (
			@id, @userID, @date, @overall,
			@nutrition, @activity, @sleep, @hydration,
			@consistency, @additional,
			@calorieAdherence, @macroBalance, @steps, @workout,
			@sleepDuration, @bedtime, @computedAt)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": rec.ID, "userID": userID, "date": dateStr, "overall": rec.OverallScore,
			"nutrition": rec.NutritionScore, "activity": rec.ActivityScore,
			"sleep": rec.SleepScore, "hydration": rec.HydrationScore,
			"consistency": rec.ConsistencyScore, "additional": rec.AdditionalScore,
			"calorieAdherence": rec.CalorieAdherence, "macroBalance": rec.MacroBalance,
			"steps": rec.StepsScore, "workout": rec.WorkoutScore,
			"sleepDuration": rec.SleepDuration, "bedtime": rec.BedtimeConsistency,
			"computedAt": rec.ComputedAt,
		})
	if err != nil {
		log.Printf("[scoreDay] insert failed for user %d on %s: %v", userID, dateStr, err)
		apiError(c, http.StatusInternalServerError, "failed to save score")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": saved.ID, "score": score})
}

// getScoreHistory returns every stored score snapshot within [start, end],
// oldest first. Recomputed days appear once per computation.
// GET /api/lifestyle-score/history?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getScoreHistory(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	records, err := queryMany[lifestyleScoreRecord](c, h.db,
		`SELECT * FROM lifestyle_scores
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC, computed_at ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch score history")
		return
	}

	c.JSON(http.StatusOK, records)
}
