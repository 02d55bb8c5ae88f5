package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

/* ─── Calorie adherence ──────────────────────────────────────────────── */

// TestCalorieAdherence_InRange verifies 10 at the midpoint and both edges.
func TestCalorieAdherence_InRange(t *testing.T) {
	r := CalculateCalorieRange(scenarioProfile())
	for _, kcal := range []float64{r.Min, r.Midpoint(), r.Max} {
		if got := CalorieAdherence(kcal, r); got != 10 {
			t.Errorf("CalorieAdherence(%f) = %f, want 10", kcal, got)
		}
	}
}

// TestCalorieAdherence_Symmetric verifies equal penalties above and below the
// midpoint: 150 kcal away with a 100 kcal tolerance → 10 − 1.5×5 = 2.5.
func TestCalorieAdherence_Symmetric(t *testing.T) {
	r := CalorieRange{Min: 1900, Max: 2100}
	above := CalorieAdherence(2150, r)
	below := CalorieAdherence(1850, r)
	if !approx(above, 2.5) || !approx(below, 2.5) {
		t.Errorf("above = %f, below = %f, want 2.5 both", above, below)
	}
}

// TestCalorieAdherence_FarOff clamps to 0.
func TestCalorieAdherence_FarOff(t *testing.T) {
	r := CalorieRange{Min: 1900, Max: 2100}
	if got := CalorieAdherence(0, r); got != 0 {
		t.Errorf("CalorieAdherence(0) = %f, want 0", got)
	}
}

// TestCalorieAdherence_ZeroWidthRange scores outside points 0 rather than
// dividing by a zero tolerance.
func TestCalorieAdherence_ZeroWidthRange(t *testing.T) {
	r := CalorieRange{Min: 2000, Max: 2000}
	if got := CalorieAdherence(2000, r); got != 10 {
		t.Errorf("on-point = %f, want 10", got)
	}
	if got := CalorieAdherence(2001, r); got != 0 {
		t.Errorf("off-point = %f, want 0", got)
	}
}

/* ─── Macro balance ──────────────────────────────────────────────────── */

func TestMacroBalance(t *testing.T) {
	target := MacroTargets{ProteinGrams: 100, CarbsGrams: 200, FatGrams: 50}
	cases := []struct {
		name   string
		totals MealTotals
		want   float64
	}{
		{"exact", MealTotals{ProteinGrams: 100, CarbsGrams: 200, FatGrams: 50}, 10},
		// deviations 0.1, 0.2, 0.0 → avg 0.1 → 9
		{"partial", MealTotals{ProteinGrams: 110, CarbsGrams: 160, FatGrams: 50}, 9},
		{"nothing eaten", MealTotals{}, 0},
		{"double everything", MealTotals{ProteinGrams: 200, CarbsGrams: 400, FatGrams: 100}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MacroBalance(tc.totals, target); !approx(got, tc.want) {
				t.Errorf("MacroBalance = %f, want %f", got, tc.want)
			}
		})
	}
}

// TestMacroBalance_ZeroTarget verifies a zero gram target never produces NaN:
// no intake against it is on-target, any intake is a full miss.
func TestMacroBalance_ZeroTarget(t *testing.T) {
	target := MacroTargets{ProteinGrams: 100, CarbsGrams: 200, FatGrams: 0}
	got := MacroBalance(MealTotals{ProteinGrams: 100, CarbsGrams: 200}, target)
	if got != 10 {
		t.Errorf("zero fat target, zero fat eaten = %f, want 10", got)
	}
	got = MacroBalance(MealTotals{ProteinGrams: 100, CarbsGrams: 200, FatGrams: 30}, target)
	if !approx(got, 10-10.0/3) {
		t.Errorf("zero fat target, fat eaten = %f, want %f", got, 10-10.0/3)
	}
}

/* ─── Activity / hydration ───────────────────────────────────────────── */

// TestStepsScore checks the endpoints and monotonicity between them.
func TestStepsScore(t *testing.T) {
	if got := StepsScore(0, 8000); got != 0 {
		t.Errorf("StepsScore(0) = %f, want 0", got)
	}
	if got := StepsScore(8000, 8000); got != 10 {
		t.Errorf("StepsScore(goal) = %f, want 10", got)
	}
	if got := StepsScore(20000, 8000); got != 10 {
		t.Errorf("StepsScore(>goal) = %f, want 10", got)
	}
	prev := -1.0
	for steps := 0; steps <= 9000; steps += 500 {
		got := StepsScore(steps, 8000)
		if got < prev {
			t.Errorf("StepsScore(%d) = %f dropped below %f", steps, got, prev)
		}
		prev = got
	}
	if got := StepsScore(-500, 8000); got != 0 {
		t.Errorf("StepsScore(negative) = %f, want 0", got)
	}
}

func TestWorkoutScore(t *testing.T) {
	if got := WorkoutScore(15, 30); got != 5 {
		t.Errorf("WorkoutScore(15) = %f, want 5", got)
	}
	if got := WorkoutScore(90, 30); got != 10 {
		t.Errorf("WorkoutScore(90) = %f, want 10", got)
	}
}

func TestHydrationScore(t *testing.T) {
	if got := HydrationScore(1.5, 2.0); !approx(got, 7.5) {
		t.Errorf("HydrationScore(1.5) = %f, want 7.5", got)
	}
	if got := HydrationScore(1.0, 0); got != 0 {
		t.Errorf("HydrationScore with zero goal = %f, want 0", got)
	}
}

/* ─── Sleep ──────────────────────────────────────────────────────────── */

func TestSleepDurationScore(t *testing.T) {
	cases := []struct {
		actual, target, want float64
	}{
		{7.0, 7.0, 10},
		{7.5, 7.0, 10},
		{8.5, 7.0, 7.0},
		{4.0, 8.0, 2.0},
		{0, 8.0, 0},
	}
	for _, tc := range cases {
		if got := SleepDurationScore(tc.actual, tc.target, 0.5); !approx(got, tc.want) {
			t.Errorf("SleepDurationScore(%v, %v) = %f, want %f", tc.actual, tc.target, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"23:00", 1380, true},
		{"00:30", 30, true},
		{"7:05", 425, true},
		{"", 0, false},
		{"24:00", 0, false},
		{"12:7", 0, false},
		{"noon", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

// TestBedtimeConsistency covers the tolerance window, the linear penalty and
// the same-day (non-wrapping) treatment of times after midnight.
func TestBedtimeConsistency(t *testing.T) {
	cases := []struct {
		name           string
		actual, target string
		wraps          bool
		want           float64
	}{
		{"10 min late", "23:10", "23:00", false, 10},
		{"90 min late", "00:30", "23:00", true, 7},
		{"after midnight same-day", "00:30", "23:00", false, 0},
		{"1 hour early", "22:00", "23:00", false, 8},
		{"wrap small gap", "23:50", "00:10", true, 10},
		{"no wrap small gap", "23:50", "00:10", false, 0},
		{"empty actual", "", "23:00", false, 0},
		{"bad target", "23:00", "late", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BedtimeConsistency(tc.actual, tc.target, 30, tc.wraps); !approx(got, tc.want) {
				t.Errorf("BedtimeConsistency(%q, %q) = %f, want %f", tc.actual, tc.target, got, tc.want)
			}
		})
	}
}

/* ─── Composite ──────────────────────────────────────────────────────── */

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 21, 0, 0, 0, time.UTC)
}

// perfectDay returns totals matching the scenario targets and actuals that hit
// every goal.
func perfectDay() (Targets, MealTotals, DailyActuals) {
	targets := TargetsFor(scenarioProfile())
	totals := MealTotals{
		Calories:     targets.CalorieRange.Midpoint(),
		ProteinGrams: targets.Macros.ProteinGrams,
		CarbsGrams:   targets.Macros.CarbsGrams,
		FatGrams:     targets.Macros.FatGrams,
	}
	actuals := DailyActuals{
		Steps:          8000,
		WorkoutMinutes: 30,
		SleepHours:     7.0,
		ActualBedtime:  "23:10",
		WaterLiters:    2.0,
	}
	return targets, totals, actuals
}

// TestScoreTargets_PerfectDay verifies every adherence sub-score is 10 and the
// overall is 10×0.8 + 5×0.2 = 9 with default consistency and additional scores.
func TestScoreTargets_PerfectDay(t *testing.T) {
	calc := NewCalculator(DefaultScoreConfig()).WithClock(fixedClock)
	targets, totals, actuals := perfectDay()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	score := calc.ScoreTargets(date, targets, totals, actuals)

	c := score.Components
	for name, v := range map[string]float64{
		"calorie": c.CalorieAdherence, "macro": c.MacroBalance,
		"steps": c.StepsScore, "workout": c.WorkoutScore,
		"sleep": c.SleepDuration, "bedtime": c.BedtimeConsistency,
		"hydration": c.HydrationScore,
	} {
		if !approx(v, 10) {
			t.Errorf("%s = %f, want 10", name, v)
		}
	}
	if !approx(score.OverallScore, 9) {
		t.Errorf("OverallScore = %f, want 9", score.OverallScore)
	}
	if !score.ComputedAt.Equal(fixedClock()) {
		t.Errorf("ComputedAt = %v, want %v", score.ComputedAt, fixedClock())
	}
	if !score.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", score.Date, date)
	}
}

// TestScoreTargets_Overrides verifies caller-supplied consistency and
// additional scores replace the defaults and are clamped.
func TestScoreTargets_Overrides(t *testing.T) {
	calc := NewCalculator(DefaultScoreConfig())
	targets, totals, actuals := perfectDay()
	ten, huge := 10.0, 42.0
	actuals.ConsistencyScore = &ten
	actuals.AdditionalScore = &huge

	score := calc.ScoreTargets(time.Time{}, targets, totals, actuals)
	if score.Components.AdditionalScore != 10 {
		t.Errorf("AdditionalScore = %f, want clamped 10", score.Components.AdditionalScore)
	}
	if !approx(score.OverallScore, 10) {
		t.Errorf("OverallScore = %f, want 10", score.OverallScore)
	}
}

// TestComposites verifies the nutrition/activity/sleep roll-up weights.
func TestComposites(t *testing.T) {
	c := NewScoreComponents(ScoreComponents{
		CalorieAdherence:   10,
		MacroBalance:       5,
		StepsScore:         5,
		WorkoutScore:       10,
		SleepDuration:      10,
		BedtimeConsistency: 0,
		HydrationScore:     4,
		ConsistencyScore:   5,
		AdditionalScore:    5,
	}, DefaultWeights())
	if got := c.NutritionScore(); !approx(got, 8) {
		t.Errorf("NutritionScore = %f, want 8", got)
	}
	if got := c.ActivityScore(); !approx(got, 7) {
		t.Errorf("ActivityScore = %f, want 7", got)
	}
	if got := c.SleepScore(); !approx(got, 7) {
		t.Errorf("SleepScore = %f, want 7", got)
	}
	// 8×.25 + 7×.2 + 7×.2 + 4×.15 + 5×.1 + 5×.1 = 6.4
	if got := c.OverallScore(); !approx(got, 6.4) {
		t.Errorf("OverallScore = %f, want 6.4", got)
	}
}

// TestZeroValueComponentsUseDefaultWeights guards composites on a zero value.
func TestZeroValueComponentsUseDefaultWeights(t *testing.T) {
	c := ScoreComponents{CalorieAdherence: 10, MacroBalance: 10}
	if got := c.NutritionScore(); !approx(got, 10) {
		t.Errorf("NutritionScore = %f, want 10", got)
	}
}

// TestOverallScore_ExtremeInputs verifies the overall score stays in [0, 10]
// and never becomes NaN for hostile numeric inputs.
func TestOverallScore_ExtremeInputs(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	profiles := []UserProfile{
		scenarioProfile(),
		{Age: -5, HeightCm: -1, WeightKg: 0, TargetSleepHours: nan},
		{Age: 1 << 30, HeightCm: inf, WeightKg: inf, TargetSleepHours: inf, TargetBedtime: "99:99"},
		{HeightCm: nan, WeightKg: nan},
	}
	actuals := []DailyActuals{
		{},
		{Steps: math.MinInt, WorkoutMinutes: -inf, SleepHours: nan, ActualBedtime: "x", WaterLiters: nan},
		{Steps: math.MaxInt, WorkoutMinutes: inf, SleepHours: inf, ActualBedtime: "23:59", WaterLiters: inf},
	}
	summaries := []DailyMealSummary{
		{},
		{Meals: []Meal{{Calories: inf, ProteinGrams: inf, CarbsGrams: nan, FatGrams: -inf}}},
		{Meals: []Meal{{Calories: 1e308}, {Calories: 1e308}}},
	}

	calc := NewCalculator(DefaultScoreConfig())
	for _, p := range profiles {
		for _, a := range actuals {
			for _, s := range summaries {
				score := calc.Score(p, s, a)
				if math.IsNaN(score.OverallScore) || score.OverallScore < 0 || score.OverallScore > 10 {
					t.Fatalf("OverallScore = %f out of range for profile %+v actuals %+v", score.OverallScore, p, a)
				}
			}
		}
	}
}

// TestCalculateLifestyleScore_Scenario runs the convenience entry point with
// meals that land inside the calorie range.
func TestCalculateLifestyleScore_Scenario(t *testing.T) {
	summary := DailyMealSummary{
		Date: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Meals: []Meal{
			{Calories: 1100, ProteinGrams: 80, CarbsGrams: 110, FatGrams: 37, MealType: MealLunch},
			{Calories: 1100, ProteinGrams: 85, CarbsGrams: 110, FatGrams: 37, MealType: MealDinner},
		},
	}
	score := CalculateLifestyleScore(scenarioProfile(), summary, 4000, 15, 8.5, "00:30", 1.0)

	c := score.Components
	if c.CalorieAdherence != 10 {
		t.Errorf("CalorieAdherence = %f, want 10", c.CalorieAdherence)
	}
	if !approx(c.StepsScore, 5) || !approx(c.WorkoutScore, 5) || !approx(c.HydrationScore, 5) {
		t.Errorf("steps/workout/hydration = %f/%f/%f, want 5 each", c.StepsScore, c.WorkoutScore, c.HydrationScore)
	}
	if !approx(c.SleepDuration, 7) {
		t.Errorf("SleepDuration = %f, want 7", c.SleepDuration)
	}
	if c.BedtimeConsistency != 0 {
		t.Errorf("BedtimeConsistency = %f, want 0 (same-day comparison)", c.BedtimeConsistency)
	}
	if !approx(score.OverallScore, c.OverallScore()) {
		t.Errorf("OverallScore %f disagrees with components %f", score.OverallScore, c.OverallScore())
	}
}

// TestScoreComponents_JSON verifies composites are encoded with the sub-scores.
func TestScoreComponents_JSON(t *testing.T) {
	c := NewScoreComponents(ScoreComponents{CalorieAdherence: 10, MacroBalance: 5}, DefaultWeights())
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]float64
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !approx(out["nutrition"], 8) {
		t.Errorf("nutrition = %f, want 8", out["nutrition"])
	}
	if out["calorie_adherence"] != 10 {
		t.Errorf("calorie_adherence = %f, want 10", out["calorie_adherence"])
	}
}
