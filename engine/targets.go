package engine

// Atwater factors, kcal per gram.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// calorieBandHalfWidth is the ± tolerance window around the daily target
// inside which intake counts as full adherence.
const calorieBandHalfWidth = 100.0

// goalCalorieFactors scales TDEE by goal: 20% deficit, maintenance, 10% surplus.
var goalCalorieFactors = map[Goal]float64{
	GoalLoseWeight:     0.80,
	GoalMaintainWeight: 1.00,
	GoalGainMuscle:     1.10,
}

// macroSplit is a protein/carbs/fat calorie share triple summing to 1.0.
type macroSplit struct {
	protein, carbs, fat float64
}

var goalMacroSplits = map[Goal]macroSplit{
	GoalLoseWeight:     {protein: 0.30, carbs: 0.40, fat: 0.30},
	GoalMaintainWeight: {protein: 0.25, carbs: 0.45, fat: 0.30},
	GoalGainMuscle:     {protein: 0.30, carbs: 0.50, fat: 0.20},
}

// splitFor returns the macro split for g, falling back to maintenance.
func splitFor(g Goal) macroSplit {
	if s, ok := goalMacroSplits[g]; ok {
		return s
	}
	return goalMacroSplits[GoalMaintainWeight]
}

func calorieFactorFor(g Goal) float64 {
	if f, ok := goalCalorieFactors[g]; ok {
		return f
	}
	return 1.0
}

// CalorieRange is the daily intake window derived from a profile. It is
// always recomputed from the profile, never stored on its own.
type CalorieRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the center of the range, the daily calorie target.
func (r CalorieRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Tolerance returns half the range width.
func (r CalorieRange) Tolerance() float64 {
	return (r.Max - r.Min) / 2
}

// Contains reports whether kcal falls inside [Min, Max].
func (r CalorieRange) Contains(kcal float64) bool {
	return kcal >= r.Min && kcal <= r.Max
}

// MacroTargets holds daily gram targets and the calorie share of each macro.
type MacroTargets struct {
	ProteinGrams   float64 `json:"protein_grams"`
	CarbsGrams     float64 `json:"carbs_grams"`
	FatGrams       float64 `json:"fat_grams"`
	ProteinPercent float64 `json:"protein_percent"`
	CarbsPercent   float64 `json:"carbs_percent"`
	FatPercent     float64 `json:"fat_percent"`
}

// BMR computes basal metabolic rate via Mifflin-St Jeor. For SexOther (and
// any unrecognized value) it returns the mean of the male and female results.
func BMR(p UserProfile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	male := base + 5
	female := base - 161
	switch p.BiologicalSex {
	case SexMale:
		return male
	case SexFemale:
		return female
	default:
		return (male + female) / 2
	}
}

// TDEE multiplies BMR by the profile's activity multiplier.
func TDEE(p UserProfile) float64 {
	return BMR(p) * p.ActivityLevel.Multiplier()
}

// CalculateCalorieRange returns [target-100, target+100] where target is TDEE
// adjusted for the profile's goal. No floor is applied, so degenerate profiles
// can yield a negative range.
func CalculateCalorieRange(p UserProfile) CalorieRange {
	target := TDEE(p) * calorieFactorFor(p.Goal)
	return CalorieRange{
		Min: target - calorieBandHalfWidth,
		Max: target + calorieBandHalfWidth,
	}
}

// CalculateMacroTargets splits the calorie range midpoint across macros using
// the goal's fixed split and converts to grams with Atwater factors.
func CalculateMacroTargets(p UserProfile) MacroTargets {
	return macroTargetsFor(CalculateCalorieRange(p).Midpoint(), splitFor(p.Goal))
}

func macroTargetsFor(calories float64, s macroSplit) MacroTargets {
	return MacroTargets{
		ProteinGrams:   calories * s.protein / kcalPerGramProtein,
		CarbsGrams:     calories * s.carbs / kcalPerGramCarbs,
		FatGrams:       calories * s.fat / kcalPerGramFat,
		ProteinPercent: s.protein,
		CarbsPercent:   s.carbs,
		FatPercent:     s.fat,
	}
}

// Targets bundles everything the score calculator needs from a profile.
type Targets struct {
	CalorieRange     CalorieRange `json:"calorie_range"`
	Macros           MacroTargets `json:"macros"`
	TargetSleepHours float64      `json:"target_sleep_hours"`
	TargetBedtime    string       `json:"target_bedtime"`
}

// TargetsFor derives Targets from p.
func TargetsFor(p UserProfile) Targets {
	return Targets{
		CalorieRange:     CalculateCalorieRange(p),
		Macros:           CalculateMacroTargets(p),
		TargetSleepHours: p.TargetSleepHours,
		TargetBedtime:    p.TargetBedtime,
	}
}
