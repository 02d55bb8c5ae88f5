package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/lifestyle-score-api/engine"
)

// getProfile returns the authenticated user's profile. Calorie range, macro
// targets and daily goals are populated when all body-metric fields are set.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](c, h.db,
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

	populateComputedTargets(&p)

	c.JSON(http.StatusOK, p)
}

// validateProfilePatch checks enum and range constraints on the provided
// fields before anything is written. Returns the first problem found.
func validateProfilePatch(body *patchProfileRequest) error {
	if body.BiologicalSex != nil {
		v, err := engine.ParseBiologicalSex(*body.BiologicalSex)
		if err != nil {
			return err
		}
		*body.BiologicalSex = string(v)
	}
	if body.Goal != nil {
		v, err := engine.ParseGoal(*body.Goal)
		if err != nil {
			return err
		}
		*body.Goal = string(v)
	}
	if body.ActivityLevel != nil {
		v, err := engine.ParseActivityLevel(*body.ActivityLevel)
		if err != nil {
			return err
		}
		*body.ActivityLevel = string(v)
	}
	if body.GoalStrategy != nil {
		if _, err := engine.StrategyByName(*body.GoalStrategy, 0); err != nil {
			return err
		}
	}
	if body.TargetBedtime != nil {
		if _, ok := engine.ParseClock(*body.TargetBedtime); !ok {
			return errors.New("target_bedtime must be HH:MM")
		}
	}
	if body.Age != nil && (*body.Age <= 0 || *body.Age > 130) {
		return errors.New("age must be between 1 and 130")
	}
	if body.HeightCM != nil && (*body.HeightCM <= 0 || *body.HeightCM > 300) {
		return errors.New("height_cm must be between 0 and 300")
	}
	if body.WeightKG != nil && (*body.WeightKG <= 0 || *body.WeightKG > 700) {
		return errors.New("weight_kg must be between 0 and 700")
	}
	if body.TargetSleepHours != nil && (*body.TargetSleepHours < 0 || *body.TargetSleepHours > 24) {
		return errors.New("target_sleep_hours must be between 0 and 24")
	}
	if body.WeeklyPaceKG != nil && (*body.WeeklyPaceKG < 0 || *body.WeeklyPaceKG > 1.5) {
		return errors.New("weekly_pace_kg must be between 0 and 1.5")
	}
	return nil
}

// patchProfile updates only the provided profile fields and returns the
// profile with freshly computed targets.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateProfilePatch(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}

	if body.Age != nil {
		set("age", "age", *body.Age)
	}
	if body.BiologicalSex != nil {
		set("biological_sex", "biologicalSex", *body.BiologicalSex)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.WeightKG != nil {
		set("weight_kg", "weightKG", *body.WeightKG)
	}
	if body.Goal != nil {
		set("goal", "goal", *body.Goal)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.TargetBedtime != nil {
		set("target_bedtime", "targetBedtime", *body.TargetBedtime)
	}
	if body.TargetSleepHours != nil {
		set("target_sleep_hours", "targetSleepHours", *body.TargetSleepHours)
	}
	if body.WeeklyPaceKG != nil {
		set("weekly_pace_kg", "weeklyPaceKG", *body.WeeklyPaceKG)
	}
	if body.GoalStrategy != nil {
		set("goal_strategy", "goalStrategy", *body.GoalStrategy)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE user_profiles SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[userProfile](c, h.db, query, args)
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputedTargets(&p)

	c.JSON(http.StatusOK, p)
}
