package engine

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MealType is the slot a meal was logged under.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType accepts breakfast, lunch, dinner or snack.
func ParseMealType(s string) (MealType, error) {
	switch v := MealType(strings.ToLower(strings.TrimSpace(s))); v {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return v, nil
	}
	return "", fmt.Errorf("meal_type must be one of: breakfast, lunch, dinner, snack")
}

// Meal is one logged meal. Values are expected to be >= 0.
type Meal struct {
	Calories     float64  `json:"calories"`
	ProteinGrams float64  `json:"protein_grams"`
	CarbsGrams   float64  `json:"carbs_grams"`
	FatGrams     float64  `json:"fat_grams"`
	MealType     MealType `json:"meal_type"`
}

// MealTotals is a snapshot of a day's summed intake.
type MealTotals struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatGrams     float64 `json:"fat_grams"`
}

// DailyMealSummary is a view over one day's meals. All totals are computed on
// access from Meals so they cannot drift from the list.
type DailyMealSummary struct {
	Date  time.Time `json:"date"`
	Meals []Meal    `json:"meals"`
}

// nonNegative maps negative and NaN values to 0.
func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

func (s DailyMealSummary) sum(field func(Meal) float64) float64 {
	var total float64
	for _, m := range s.Meals {
		total += nonNegative(field(m))
	}
	return total
}

func (s DailyMealSummary) TotalCalories() float64 {
	return s.sum(func(m Meal) float64 { return m.Calories })
}

func (s DailyMealSummary) TotalProtein() float64 {
	return s.sum(func(m Meal) float64 { return m.ProteinGrams })
}

func (s DailyMealSummary) TotalCarbs() float64 {
	return s.sum(func(m Meal) float64 { return m.CarbsGrams })
}

func (s DailyMealSummary) TotalFat() float64 {
	return s.sum(func(m Meal) float64 { return m.FatGrams })
}

// Totals returns all four sums at once.
func (s DailyMealSummary) Totals() MealTotals {
	return MealTotals{
		Calories:     s.TotalCalories(),
		ProteinGrams: s.TotalProtein(),
		CarbsGrams:   s.TotalCarbs(),
		FatGrams:     s.TotalFat(),
	}
}

// percentOfCalories returns grams×kcalPerGram as a 0–100 share of the day's
// calories, or 0 when nothing was eaten.
func (s DailyMealSummary) percentOfCalories(grams, kcalPerGram float64) float64 {
	total := s.TotalCalories()
	if total == 0 || math.IsInf(total, 0) {
		return 0
	}
	return grams * kcalPerGram / total * 100
}

func (s DailyMealSummary) ProteinPercent() float64 {
	return s.percentOfCalories(s.TotalProtein(), kcalPerGramProtein)
}

func (s DailyMealSummary) CarbsPercent() float64 {
	return s.percentOfCalories(s.TotalCarbs(), kcalPerGramCarbs)
}

func (s DailyMealSummary) FatPercent() float64 {
	return s.percentOfCalories(s.TotalFat(), kcalPerGramFat)
}

// ByMealType groups meals by type. Insertion order is preserved within a
// group; the map has no ordering between groups.
func (s DailyMealSummary) ByMealType() map[MealType][]Meal {
	groups := make(map[MealType][]Meal)
	for _, m := range s.Meals {
		groups[m.MealType] = append(groups[m.MealType], m)
	}
	return groups
}

// CaloriesByMealType sums calories per meal type.
func (s DailyMealSummary) CaloriesByMealType() map[MealType]float64 {
	out := make(map[MealType]float64)
	for _, m := range s.Meals {
		out[m.MealType] += nonNegative(m.Calories)
	}
	return out
}
