package engine

import (
	"math"
	"testing"
	"time"
)

func sampleSummary() DailyMealSummary {
	return DailyMealSummary{
		Date: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Meals: []Meal{
			{Calories: 400, ProteinGrams: 30, CarbsGrams: 40, FatGrams: 12, MealType: MealBreakfast},
			{Calories: 650, ProteinGrams: 45, CarbsGrams: 70, FatGrams: 20, MealType: MealLunch},
			{Calories: 150, ProteinGrams: 5, CarbsGrams: 20, FatGrams: 6, MealType: MealSnack},
			{Calories: 800, ProteinGrams: 50, CarbsGrams: 80, FatGrams: 30, MealType: MealDinner},
			{Calories: 100, ProteinGrams: 2, CarbsGrams: 15, FatGrams: 4, MealType: MealSnack},
		},
	}
}

// TestDailyMealSummary_Empty verifies zero totals and no divide-by-zero on an
// empty day.
func TestDailyMealSummary_Empty(t *testing.T) {
	var s DailyMealSummary
	if s.TotalCalories() != 0 || s.TotalProtein() != 0 || s.TotalCarbs() != 0 || s.TotalFat() != 0 {
		t.Errorf("empty totals = %+v, want all zero", s.Totals())
	}
	for name, pct := range map[string]float64{
		"protein": s.ProteinPercent(),
		"carbs":   s.CarbsPercent(),
		"fat":     s.FatPercent(),
	} {
		if pct != 0 || math.IsNaN(pct) {
			t.Errorf("%s percent = %f, want 0", name, pct)
		}
	}
}

func TestDailyMealSummary_Totals(t *testing.T) {
	got := sampleSummary().Totals()
	want := MealTotals{Calories: 2100, ProteinGrams: 132, CarbsGrams: 225, FatGrams: 72}
	if got != want {
		t.Errorf("Totals = %+v, want %+v", got, want)
	}
}

// TestDailyMealSummary_Percents checks macro calorie shares: protein
// 132×4/2100×100 ≈ 25.14%, fat 72×9/2100×100 ≈ 30.86%.
func TestDailyMealSummary_Percents(t *testing.T) {
	s := sampleSummary()
	if got := s.ProteinPercent(); math.Abs(got-132.0*4/2100*100) > eps {
		t.Errorf("ProteinPercent = %f", got)
	}
	if got := s.CarbsPercent(); math.Abs(got-225.0*4/2100*100) > eps {
		t.Errorf("CarbsPercent = %f", got)
	}
	if got := s.FatPercent(); math.Abs(got-72.0*9/2100*100) > eps {
		t.Errorf("FatPercent = %f", got)
	}
}

// TestDailyMealSummary_ZeroCaloriesWithMacros guards the percent divide when
// macros are logged against zero calories.
func TestDailyMealSummary_ZeroCaloriesWithMacros(t *testing.T) {
	s := DailyMealSummary{Meals: []Meal{{ProteinGrams: 20, MealType: MealSnack}}}
	if got := s.ProteinPercent(); got != 0 {
		t.Errorf("ProteinPercent = %f, want 0", got)
	}
}

// TestDailyMealSummary_NegativeValuesIgnored verifies negative and NaN values
// contribute nothing to totals.
func TestDailyMealSummary_NegativeValuesIgnored(t *testing.T) {
	s := DailyMealSummary{Meals: []Meal{
		{Calories: 500, ProteinGrams: 20, MealType: MealLunch},
		{Calories: -300, ProteinGrams: math.NaN(), MealType: MealSnack},
	}}
	if got := s.TotalCalories(); got != 500 {
		t.Errorf("TotalCalories = %f, want 500", got)
	}
	if got := s.TotalProtein(); got != 20 {
		t.Errorf("TotalProtein = %f, want 20", got)
	}
}

// TestDailyMealSummary_ByMealType verifies grouping keeps insertion order
// within each group.
func TestDailyMealSummary_ByMealType(t *testing.T) {
	groups := sampleSummary().ByMealType()
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	snacks := groups[MealSnack]
	if len(snacks) != 2 {
		t.Fatalf("got %d snacks, want 2", len(snacks))
	}
	if snacks[0].Calories != 150 || snacks[1].Calories != 100 {
		t.Errorf("snack order = [%v, %v], want [150, 100]", snacks[0].Calories, snacks[1].Calories)
	}
}

func TestDailyMealSummary_CaloriesByMealType(t *testing.T) {
	got := sampleSummary().CaloriesByMealType()
	want := map[MealType]float64{MealBreakfast: 400, MealLunch: 650, MealDinner: 800, MealSnack: 250}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %f, want %f", k, got[k], v)
		}
	}
}

func TestParseMealType(t *testing.T) {
	if _, err := ParseMealType("brunch"); err == nil {
		t.Error("expected error for brunch")
	}
	if got, err := ParseMealType("Dinner"); err != nil || got != MealDinner {
		t.Errorf("ParseMealType(Dinner) = %q, %v", got, err)
	}
}
