package engine

import (
	"fmt"
	"math"
)

// Strategy names accepted by StrategyByName.
const (
	StrategyFixedPercent = "fixed_percent"
	StrategyWeeklyPace   = "weekly_pace"
)

const (
	kcalPerKgBodyFat = 7700.0
	minDailyCalories = 1200.0
)

// DailyGoals is the rounded daily calorie and macro-gram target shown to users.
type DailyGoals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// GoalStrategy turns a profile into DailyGoals. Two strategies coexist:
// the fixed-percent TDEE adjustment and the weekly-pace energy balance.
type GoalStrategy interface {
	Name() string
	DailyGoals(p UserProfile) DailyGoals
}

// FixedPercentStrategy uses the calorie range midpoint (20% deficit / 10%
// surplus) and the matching macro targets.
type FixedPercentStrategy struct{}

func (FixedPercentStrategy) Name() string { return StrategyFixedPercent }

func (FixedPercentStrategy) DailyGoals(p UserProfile) DailyGoals {
	calories := CalculateCalorieRange(p).Midpoint()
	return roundGoals(calories, CalculateMacroTargets(p))
}

// WeeklyPaceStrategy offsets TDEE by WeeklyPaceKg × 7700 / 7 kcal per day,
// subtracting for weight loss and adding for muscle gain. The result never
// drops below 1200 kcal/day.
type WeeklyPaceStrategy struct {
	WeeklyPaceKg float64
}

func (WeeklyPaceStrategy) Name() string { return StrategyWeeklyPace }

func (s WeeklyPaceStrategy) DailyGoals(p UserProfile) DailyGoals {
	tdee := TDEE(p)
	delta := math.Abs(s.WeeklyPaceKg) * kcalPerKgBodyFat / 7

	calories := tdee
	switch p.Goal {
	case GoalLoseWeight:
		calories = tdee - delta
	case GoalGainMuscle:
		calories = tdee + delta
	}
	if calories < minDailyCalories || math.IsNaN(calories) {
		calories = minDailyCalories
	}
	return roundGoals(calories, macroTargetsFor(calories, splitFor(p.Goal)))
}

func roundGoals(calories float64, m MacroTargets) DailyGoals {
	return DailyGoals{
		Calories: int(math.Round(calories)),
		Protein:  int(math.Round(m.ProteinGrams)),
		Carbs:    int(math.Round(m.CarbsGrams)),
		Fat:      int(math.Round(m.FatGrams)),
	}
}

// StrategyByName resolves a strategy name. weeklyPaceKg is only used by
// the weekly_pace strategy.
func StrategyByName(name string, weeklyPaceKg float64) (GoalStrategy, error) {
	switch name {
	case StrategyFixedPercent:
		return FixedPercentStrategy{}, nil
	case StrategyWeeklyPace:
		return WeeklyPaceStrategy{WeeklyPaceKg: weeklyPaceKg}, nil
	}
	return nil, fmt.Errorf("strategy must be one of: %s, %s", StrategyFixedPercent, StrategyWeeklyPace)
}

// CalculateDailyGoals is the simplified-onboarding entry point: it builds a
// profile from loose fields and applies the weekly-pace strategy.
func CalculateDailyGoals(age int, sex BiologicalSex, heightCm, weightKg float64, activity ActivityLevel, goal Goal, weeklyPaceKg float64) DailyGoals {
	p := UserProfile{
		Age:           age,
		BiologicalSex: sex,
		HeightCm:      heightCm,
		WeightKg:      weightKg,
		Goal:          goal,
		ActivityLevel: activity,
	}
	return WeeklyPaceStrategy{WeeklyPaceKg: weeklyPaceKg}.DailyGoals(p)
}
