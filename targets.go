package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/lifestyle-score-api/engine"
)

// bindProfile binds and normalizes an engine.UserProfile request body. Writes a
// 400 and returns false on failure.
func bindProfile(c *gin.Context, p *engine.UserProfile) bool {
	if err := c.ShouldBindJSON(p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	normalized, err := p.Normalize()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return false
	}
	*p = normalized
	return true
}

// postCalorieRange handles POST /api/targets/calorie-range.
func (h *Handler) postCalorieRange(c *gin.Context) {
	var p engine.UserProfile
	if !bindProfile(c, &p) {
		return
	}
	c.JSON(http.StatusOK, engine.CalculateCalorieRange(p))
}

// postMacroTargets handles POST /api/targets/macros.
func (h *Handler) postMacroTargets(c *gin.Context) {
	var p engine.UserProfile
	if !bindProfile(c, &p) {
		return
	}
	c.JSON(http.StatusOK, engine.CalculateMacroTargets(p))
}

// dailyGoalsRequest is a profile plus the weekly pace used by the
// weekly_pace strategy.
type dailyGoalsRequest struct {
	engine.UserProfile
	WeeklyPaceKG float64 `json:"weekly_pace_kg"`
}

// postDailyGoals handles POST /api/targets/daily-goals?strategy=fixed_percent|weekly_pace.
// Defaults to weekly_pace, the simplified-onboarding flow.
func (h *Handler) postDailyGoals(c *gin.Context) {
	strategy, err := engine.StrategyByName(c.DefaultQuery("strategy", engine.StrategyWeeklyPace), 0)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	var body dailyGoalsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := body.Normalize()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.WeeklyPaceKG < 0 || body.WeeklyPaceKG > 1.5 {
		apiError(c, http.StatusBadRequest, "weekly_pace_kg must be between 0 and 1.5")
		return
	}
	if strategy.Name() == engine.StrategyWeeklyPace {
		strategy = engine.WeeklyPaceStrategy{WeeklyPaceKg: body.WeeklyPaceKG}
	}

	c.JSON(http.StatusOK, gin.H{
		"strategy": strategy.Name(),
		"goals":    strategy.DailyGoals(profile),
	})
}
