package engine

import (
	"errors"
	"fmt"
	"math"
)

// NutritionWeights rolls calorie adherence and macro balance into nutrition.
type NutritionWeights struct {
	CalorieAdherence float64 `json:"calorie_adherence"`
	MacroBalance     float64 `json:"macro_balance"`
}

// ActivityWeights rolls steps and workout into activity.
type ActivityWeights struct {
	Steps   float64 `json:"steps"`
	Workout float64 `json:"workout"`
}

// SleepWeights rolls duration and bedtime consistency into sleep.
type SleepWeights struct {
	Duration           float64 `json:"duration"`
	BedtimeConsistency float64 `json:"bedtime_consistency"`
}

// OverallWeights rolls the six top-level scores into the overall score.
type OverallWeights struct {
	Nutrition   float64 `json:"nutrition"`
	Activity    float64 `json:"activity"`
	Sleep       float64 `json:"sleep"`
	Hydration   float64 `json:"hydration"`
	Consistency float64 `json:"consistency"`
	Additional  float64 `json:"additional"`
}

// Weights is the full weight table. Each group must sum to 1.0.
type Weights struct {
	Nutrition NutritionWeights `json:"nutrition"`
	Activity  ActivityWeights  `json:"activity"`
	Sleep     SleepWeights     `json:"sleep"`
	Overall   OverallWeights   `json:"overall"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Nutrition: NutritionWeights{CalorieAdherence: 0.6, MacroBalance: 0.4},
		Activity:  ActivityWeights{Steps: 0.6, Workout: 0.4},
		Sleep:     SleepWeights{Duration: 0.7, BedtimeConsistency: 0.3},
		Overall: OverallWeights{
			Nutrition:   0.25,
			Activity:    0.20,
			Sleep:       0.20,
			Hydration:   0.15,
			Consistency: 0.10,
			Additional:  0.10,
		},
	}
}

// ScoreConfig carries the goals and weights the score calculator uses.
// Passed explicitly so alternate weightings can be tested without globals.
type ScoreConfig struct {
	GoalSteps               int     `json:"goal_steps"`
	GoalWaterLiters         float64 `json:"goal_water_liters"`
	ReferenceWorkoutMinutes float64 `json:"reference_workout_minutes"`
	SleepToleranceHours     float64 `json:"sleep_tolerance_hours"`
	BedtimeToleranceMinutes float64 `json:"bedtime_tolerance_minutes"`

	// BedtimeWrapsMidnight measures bedtime distance on the 24h circle, so
	// 23:50 vs 00:10 is 20 minutes. Off by default: times compare as
	// same-day clock values.
	BedtimeWrapsMidnight bool `json:"bedtime_wraps_midnight"`

	DefaultConsistency float64 `json:"default_consistency"`
	DefaultAdditional  float64 `json:"default_additional"`

	Weights Weights `json:"weights"`
}

// DefaultScoreConfig returns the standard goals: 8000 steps, 2.0 L water,
// a 30 minute workout, ±0.5 h sleep and ±30 min bedtime windows.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		GoalSteps:               8000,
		GoalWaterLiters:         2.0,
		ReferenceWorkoutMinutes: 30,
		SleepToleranceHours:     0.5,
		BedtimeToleranceMinutes: 30,
		DefaultConsistency:      5.0,
		DefaultAdditional:       5.0,
		Weights:                 DefaultWeights(),
	}
}

const weightSumEpsilon = 1e-9

func checkSum(name string, parts ...float64) error {
	var sum float64
	for _, p := range parts {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%s weights must be non-negative", name)
		}
		sum += p
	}
	if math.Abs(sum-1) > weightSumEpsilon {
		return fmt.Errorf("%s weights sum to %.4f, want 1.0", name, sum)
	}
	return nil
}

// Validate checks that every weight group sums to 1.0 and goals are positive.
func (c ScoreConfig) Validate() error {
	w := c.Weights
	if err := errors.Join(
		checkSum("nutrition", w.Nutrition.CalorieAdherence, w.Nutrition.MacroBalance),
		checkSum("activity", w.Activity.Steps, w.Activity.Workout),
		checkSum("sleep", w.Sleep.Duration, w.Sleep.BedtimeConsistency),
		checkSum("overall", w.Overall.Nutrition, w.Overall.Activity, w.Overall.Sleep,
			w.Overall.Hydration, w.Overall.Consistency, w.Overall.Additional),
	); err != nil {
		return err
	}
	if c.GoalSteps <= 0 {
		return errors.New("goal_steps must be positive")
	}
	if !(c.GoalWaterLiters > 0) {
		return errors.New("goal_water_liters must be positive")
	}
	if !(c.ReferenceWorkoutMinutes > 0) {
		return errors.New("reference_workout_minutes must be positive")
	}
	if c.SleepToleranceHours < 0 || c.BedtimeToleranceMinutes < 0 {
		return errors.New("tolerances must not be negative")
	}
	return nil
}
