// Package engine computes personalized nutrition targets and a daily
// lifestyle score from already-materialized user and daily data. Every
// function is pure: no I/O, no shared mutable state, safe for concurrent use.
package engine

import (
	"fmt"
	"strings"
)

// BiologicalSex selects the Mifflin-St Jeor sex offset.
type BiologicalSex string

const (
	SexMale   BiologicalSex = "male"
	SexFemale BiologicalSex = "female"
	SexOther  BiologicalSex = "other"
)

// Goal is the user's body-composition goal.
type Goal string

const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalMaintainWeight Goal = "maintain_weight"
	GoalGainMuscle     Goal = "gain_muscle"
)

// ActivityLevel maps to a fixed TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels; ParseActivityLevel
// validates against it.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// ActivityLevels lists every valid activity level from least to most active.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
	ActivityExtremelyActive,
}

// Multiplier returns the TDEE multiplier. Unknown levels are treated as sedentary.
func (a ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

// UserProfile holds the body metrics and preferences the calculators read.
// Callers must supply Age, HeightCm and WeightKg > 0; the engine does not
// validate them and returns numerically defined but meaningless results otherwise.
type UserProfile struct {
	Age              int           `json:"age"`
	BiologicalSex    BiologicalSex `json:"biological_sex"`
	HeightCm         float64       `json:"height_cm"`
	WeightKg         float64       `json:"weight_kg"`
	Goal             Goal          `json:"goal"`
	ActivityLevel    ActivityLevel `json:"activity_level"`
	TargetBedtime    string        `json:"target_bedtime"` // "HH:MM"
	TargetSleepHours float64       `json:"target_sleep_hours"`
}

/* ─── Parsing ────────────────────────────────────────────────────────── */

// ParseBiologicalSex accepts "male", "female" or "other" (case-insensitive).
func ParseBiologicalSex(s string) (BiologicalSex, error) {
	switch v := BiologicalSex(strings.ToLower(strings.TrimSpace(s))); v {
	case SexMale, SexFemale, SexOther:
		return v, nil
	}
	return "", fmt.Errorf("biological_sex must be one of: male, female, other")
}

// ParseGoal accepts "lose_weight", "maintain_weight" or "gain_muscle".
func ParseGoal(s string) (Goal, error) {
	switch v := Goal(strings.ToLower(strings.TrimSpace(s))); v {
	case GoalLoseWeight, GoalMaintainWeight, GoalGainMuscle:
		return v, nil
	}
	return "", fmt.Errorf("goal must be one of: lose_weight, maintain_weight, gain_muscle")
}

// ParseActivityLevel validates s against the multiplier table.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := activityMultipliers[v]; !ok {
		return "", fmt.Errorf("activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extremely_active")
	}
	return v, nil
}

// Normalize validates p and returns a copy with every enum in its canonical
// lower-case form. Callers run it at the edge; the calculators never reject
// input themselves.
func (p UserProfile) Normalize() (UserProfile, error) {
	sex, err := ParseBiologicalSex(string(p.BiologicalSex))
	if err != nil {
		return p, err
	}
	goal, err := ParseGoal(string(p.Goal))
	if err != nil {
		return p, err
	}
	level, err := ParseActivityLevel(string(p.ActivityLevel))
	if err != nil {
		return p, err
	}
	if p.Age <= 0 || p.HeightCm <= 0 || p.WeightKg <= 0 {
		return p, fmt.Errorf("age, height_cm and weight_kg must be positive")
	}
	p.BiologicalSex, p.Goal, p.ActivityLevel = sex, goal, level
	return p, nil
}

// Validate reports whether Normalize would accept p.
func (p UserProfile) Validate() error {
	_, err := p.Normalize()
	return err
}
