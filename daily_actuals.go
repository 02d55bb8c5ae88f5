package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/lifestyle-score-api/engine"
)

// getDailyActuals returns the stored activity, sleep and hydration values for
// a date. A day with nothing recorded returns zeros rather than 404.
// GET /api/daily-actuals?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyActuals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	a, err := queryOne[dailyActuals](c, h.db,
		"SELECT * FROM daily_actuals WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date.Format("2006-01-02")})
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusOK, dailyActuals{UserID: userID, Date: DateOnly{date}})
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily actuals")
		return
	}

	c.JSON(http.StatusOK, a)
}

// validateActuals rejects values that cannot describe a real day.
func validateActuals(body *putDailyActualsRequest) error {
	if body.Steps < 0 {
		return errors.New("steps must not be negative")
	}
	if body.WorkoutMinutes < 0 || body.WorkoutMinutes > 24*60 {
		return errors.New("workout_minutes must be between 0 and 1440")
	}
	if body.SleepHours < 0 || body.SleepHours > 24 {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	if body.WaterLiters < 0 {
		return errors.New("water_liters must not be negative")
	}
	if body.ActualBedtime != "" {
		if _, ok := engine.ParseClock(body.ActualBedtime); !ok {
			return errors.New("actual_bedtime must be HH:MM")
		}
	}
	for _, s := range []*float64{body.ConsistencyScore, body.AdditionalScore} {
		if s != nil && (*s < 0 || *s > 10) {
			return errors.New("consistency_score and additional_score must be between 0 and 10")
		}
	}
	return nil
}

// putDailyActuals creates or replaces the day's actuals.
// PUT /api/daily-actuals. The UNIQUE(user_id, date) constraint makes this an upsert.
func (h *Handler) putDailyActuals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body putDailyActualsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := parseDateParam(body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := validateActuals(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	a, err := queryOne[dailyActuals](c, h.db,
		`INSERT INTO daily_actuals
			(user_id, date, steps, workout_minutes, sleep_hours, actual_bedtime,
			 water_liters, consistency_score, additional_score)
		 VALUES
			(@userID, @date, @steps, @workoutMinutes, @sleepHours, @actualBedtime,
			 @waterLiters, @consistencyScore, @additionalScore)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			steps             = EXCLUDED.steps,
			workout_minutes   = EXCLUDED.workout_minutes,
			sleep_hours       = EXCLUDED.sleep_hours,
			actual_bedtime    = EXCLUDED.actual_bedtime,
			water_liters      = EXCLUDED.water_liters,
			consistency_score = EXCLUDED.consistency_score,
			additional_score  = EXCLUDED.additional_score,
			updated_at        = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": date.Format("2006-01-02"),
			"steps": body.Steps, "workoutMinutes": body.WorkoutMinutes,
			"sleepHours": body.SleepHours, "actualBedtime": body.ActualBedtime,
			"waterLiters": body.WaterLiters,
			"consistencyScore": body.ConsistencyScore, "additionalScore": body.AdditionalScore,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save daily actuals")
		return
	}

	c.JSON(http.StatusOK, a)
}
