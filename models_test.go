package main

import (
	"encoding/json"
	"testing"
	"time"

	"lg/lifestyle-score-api/engine"
)

func ptr[T any](v T) *T { return &v }

// storedScenarioProfile mirrors scenarioProfileJSON as a user_profiles row.
func storedScenarioProfile() userProfile {
	return userProfile{
		UserID:           1,
		Age:              ptr(30),
		BiologicalSex:    ptr("male"),
		HeightCM:         ptr(180.0),
		WeightKG:         ptr(80.0),
		Goal:             ptr("lose_weight"),
		ActivityLevel:    ptr("moderately_active"),
		TargetBedtime:    "23:00",
		TargetSleepHours: 7,
		GoalStrategy:     engine.StrategyFixedPercent,
	}
}

func TestEngineProfile_Incomplete(t *testing.T) {
	p := storedScenarioProfile()
	p.HeightCM = nil
	if _, ok := p.engineProfile(); ok {
		t.Error("engineProfile ok = true with nil height, want false")
	}

	populateComputedTargets(&p)
	if p.CalorieRange != nil || p.MacroTargets != nil || p.DailyGoals != nil {
		t.Error("computed targets should stay nil for an incomplete profile")
	}
}

func TestPopulateComputedTargets(t *testing.T) {
	cases := []struct {
		name     string
		strategy string
		pace     float64
		want     engine.DailyGoals
	}{
		{"fixed percent", engine.StrategyFixedPercent, 0, engine.DailyGoals{Calories: 2207, Protein: 166, Carbs: 221, Fat: 74}},
		{"weekly pace", engine.StrategyWeeklyPace, 0.5, engine.DailyGoals{Calories: 2209, Protein: 166, Carbs: 221, Fat: 74}},
		{"unknown strategy falls back", "mystery", 0.5, engine.DailyGoals{Calories: 2207, Protein: 166, Carbs: 221, Fat: 74}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := storedScenarioProfile()
			p.GoalStrategy = tc.strategy
			p.WeeklyPaceKG = tc.pace

			populateComputedTargets(&p)
			if p.CalorieRange == nil || !approxEqual(p.CalorieRange.Min, 2107.2) {
				t.Fatalf("CalorieRange = %+v, want min 2107.2", p.CalorieRange)
			}
			if p.DailyGoals == nil || *p.DailyGoals != tc.want {
				t.Errorf("DailyGoals = %+v, want %+v", p.DailyGoals, tc.want)
			}
		})
	}
}

func TestBuildDailyMealsResponse(t *testing.T) {
	meals := []meal{
		{ID: 1, Name: "Oats", MealType: "breakfast", Calories: 400, ProteinG: 30, CarbsG: 40, FatG: 12},
		{ID: 2, Name: "Rice bowl", MealType: "lunch", Calories: 650, ProteinG: 45, CarbsG: 70, FatG: 20},
		{ID: 3, Name: "Apple", MealType: "snack", Calories: 150, ProteinG: 5, CarbsG: 20, FatG: 6},
		{ID: 4, Name: "Salmon", MealType: "dinner", Calories: 800, ProteinG: 50, CarbsG: 80, FatG: 30},
		{ID: 5, Name: "Yogurt", MealType: "snack", Calories: 100, ProteinG: 2, CarbsG: 15, FatG: 4},
	}
	resp := buildDailyMealsResponse("2026-10-14", meals)

	want := engine.MealTotals{Calories: 2100, ProteinGrams: 132, CarbsGrams: 225, FatGrams: 72}
	if resp.Totals != want {
		t.Errorf("Totals = %+v, want %+v", resp.Totals, want)
	}
	if !approxEqual(resp.ProteinPercent, 132.0*4/2100*100) {
		t.Errorf("ProteinPercent = %v", resp.ProteinPercent)
	}
	if got := resp.CaloriesByType[engine.MealSnack]; got != 250 {
		t.Errorf("snack calories = %v, want 250", got)
	}
	if len(resp.Meals) != 5 || resp.Meals[0].Name != "Oats" {
		t.Errorf("Meals not passed through in order: %+v", resp.Meals)
	}
}

func TestBuildDailyMealsResponse_Empty(t *testing.T) {
	resp := buildDailyMealsResponse("2026-10-14", []meal{})
	if resp.Totals != (engine.MealTotals{}) || resp.ProteinPercent != 0 || resp.FatPercent != 0 {
		t.Errorf("empty day = %+v, want zero totals and percents", resp)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	json.Unmarshal(b, &decoded)
	if meals, ok := decoded["meals"].([]any); !ok || len(meals) != 0 {
		t.Errorf(`"meals" = %v, want []`, decoded["meals"])
	}
}

func TestDateOnlyJSON(t *testing.T) {
	d := DateOnly{time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(d)
	if err != nil || string(b) != `"2026-10-14"` {
		t.Fatalf("Marshal = %s, %v; want \"2026-10-14\"", b, err)
	}

	var back DateOnly
	if err := json.Unmarshal(b, &back); err != nil || !back.Equal(d.Time) {
		t.Errorf("Unmarshal = %v, %v; want %v", back, err, d)
	}
	if err := json.Unmarshal([]byte(`"14/10/2026"`), &back); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestNewScoreRecord(t *testing.T) {
	sub := engine.ScoreComponents{
		CalorieAdherence: 10, MacroBalance: 5,
		StepsScore: 10, WorkoutScore: 5,
		SleepDuration: 10, BedtimeConsistency: 0,
		HydrationScore: 8, ConsistencyScore: 5, AdditionalScore: 5,
	}
	score := engine.LifestyleScore{
		Date:       time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Components: engine.NewScoreComponents(sub, engine.DefaultWeights()),
		ComputedAt: time.Date(2026, 10, 14, 21, 0, 0, 0, time.UTC),
	}
	score.OverallScore = score.Components.OverallScore()

	rec := newScoreRecord("abc", 7, score)
	if rec.ID != "abc" || rec.UserID != 7 {
		t.Errorf("identity = %q/%d, want abc/7", rec.ID, rec.UserID)
	}
	// 10×0.6 + 5×0.4 = 8; 10×0.6 + 5×0.4 = 8; 10×0.7 + 0×0.3 = 7
	if !approxEqual(rec.NutritionScore, 8) || !approxEqual(rec.ActivityScore, 8) || !approxEqual(rec.SleepScore, 7) {
		t.Errorf("composites = %v/%v/%v, want 8/8/7", rec.NutritionScore, rec.ActivityScore, rec.SleepScore)
	}
	if rec.OverallScore != score.OverallScore || rec.HydrationScore != 8 || rec.BedtimeConsistency != 0 {
		t.Errorf("record = %+v does not match score", rec)
	}
	if !rec.Date.Equal(score.Date) || !rec.ComputedAt.Equal(score.ComputedAt) {
		t.Errorf("timestamps = %v/%v", rec.Date, rec.ComputedAt)
	}
}
