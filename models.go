package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/lifestyle-score-api/engine"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. Body-metric fields are nullable so a
// freshly created user has a row before onboarding fills it in; targets are
// only computed once every required field is present.
type userProfile struct {
	UserID           int        `json:"user_id"            db:"user_id"`
	Age              *int       `json:"age"                db:"age"`
	BiologicalSex    *string    `json:"biological_sex"     db:"biological_sex"`
	HeightCM         *float64   `json:"height_cm"          db:"height_cm"`
	WeightKG         *float64   `json:"weight_kg"          db:"weight_kg"`
	Goal             *string    `json:"goal"               db:"goal"`
	ActivityLevel    *string    `json:"activity_level"     db:"activity_level"`
	TargetBedtime    string     `json:"target_bedtime"     db:"target_bedtime"`
	TargetSleepHours float64    `json:"target_sleep_hours" db:"target_sleep_hours"`
	WeeklyPaceKG     float64    `json:"weekly_pace_kg"     db:"weekly_pace_kg"`
	GoalStrategy     string     `json:"goal_strategy"      db:"goal_strategy"`
	UpdatedAt        *time.Time `json:"updated_at"         db:"updated_at"`

	// Computed fields, recomputed on every read and never stored.
	CalorieRange *engine.CalorieRange `json:"calorie_range,omitempty" db:"-"`
	MacroTargets *engine.MacroTargets `json:"macro_targets,omitempty" db:"-"`
	DailyGoals   *engine.DailyGoals   `json:"daily_goals,omitempty"   db:"-"`
}

// meal maps to the meals table.
type meal struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	Name      string     `json:"name"       db:"name"`
	MealType  string     `json:"meal_type"  db:"meal_type"`
	Calories  float64    `json:"calories"   db:"calories"`
	ProteinG  float64    `json:"protein_g"  db:"protein_g"`
	CarbsG    float64    `json:"carbs_g"    db:"carbs_g"`
	FatG      float64    `json:"fat_g"      db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// dailyActuals maps to daily_actuals, one row per user per date.
type dailyActuals struct {
	UserID           int        `json:"user_id"           db:"user_id"`
	Date             DateOnly   `json:"date"              db:"date"`
	Steps            int        `json:"steps"             db:"steps"`
	WorkoutMinutes   float64    `json:"workout_minutes"   db:"workout_minutes"`
	SleepHours       float64    `json:"sleep_hours"       db:"sleep_hours"`
	ActualBedtime    string     `json:"actual_bedtime"    db:"actual_bedtime"`
	WaterLiters      float64    `json:"water_liters"      db:"water_liters"`
	ConsistencyScore *float64   `json:"consistency_score" db:"consistency_score"`
	AdditionalScore  *float64   `json:"additional_score"  db:"additional_score"`
	UpdatedAt        *time.Time `json:"updated_at"        db:"updated_at"`
}

// lifestyleScoreRecord maps to lifestyle_scores. Rows are append-only: a
// recomputation for the same date inserts a new row.
type lifestyleScoreRecord struct {
	ID                 string    `json:"id"                  db:"id"`
	UserID             int       `json:"user_id"             db:"user_id"`
	Date               DateOnly  `json:"date"                db:"date"`
	OverallScore       float64   `json:"overall_score"       db:"overall_score"`
	NutritionScore     float64   `json:"nutrition_score"     db:"nutrition_score"`
	ActivityScore      float64   `json:"activity_score"      db:"activity_score"`
	SleepScore         float64   `json:"sleep_score"         db:"sleep_score"`
	HydrationScore     float64   `json:"hydration_score"     db:"hydration_score"`
	ConsistencyScore   float64   `json:"consistency_score"   db:"consistency_score"`
	AdditionalScore    float64   `json:"additional_score"    db:"additional_score"`
	CalorieAdherence   float64   `json:"calorie_adherence"   db:"calorie_adherence"`
	MacroBalance       float64   `json:"macro_balance"       db:"macro_balance"`
	StepsScore         float64   `json:"steps_score"         db:"steps_score"`
	WorkoutScore       float64   `json:"workout_score"       db:"workout_score"`
	SleepDuration      float64   `json:"sleep_duration"      db:"sleep_duration"`
	BedtimeConsistency float64   `json:"bedtime_consistency" db:"bedtime_consistency"`
	ComputedAt         time.Time `json:"computed_at"         db:"computed_at"`
}

// dailyMealsResponse is the response shape for GET /api/meals/daily.
type dailyMealsResponse struct {
	Date           string                      `json:"date"`
	Meals          []meal                      `json:"meals"`
	Totals         engine.MealTotals           `json:"totals"`
	ProteinPercent float64                     `json:"protein_percent"`
	CarbsPercent   float64                     `json:"carbs_percent"`
	FatPercent     float64                     `json:"fat_percent"`
	CaloriesByType map[engine.MealType]float64 `json:"calories_by_type"`
}

// createMealRequest is the request body for POST /api/meals.
type createMealRequest struct {
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	MealType string  `json:"meal_type"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers; only non-nil fields get written.
type patchProfileRequest struct {
	Age              *int     `json:"age"`
	BiologicalSex    *string  `json:"biological_sex"`
	HeightCM         *float64 `json:"height_cm"`
	WeightKG         *float64 `json:"weight_kg"`
	Goal             *string  `json:"goal"`
	ActivityLevel    *string  `json:"activity_level"`
	TargetBedtime    *string  `json:"target_bedtime"`
	TargetSleepHours *float64 `json:"target_sleep_hours"`
	WeeklyPaceKG     *float64 `json:"weekly_pace_kg"`
	GoalStrategy     *string  `json:"goal_strategy"`
}

// putDailyActualsRequest is the request body for PUT /api/daily-actuals.
type putDailyActualsRequest struct {
	Date             string   `json:"date"`
	Steps            int      `json:"steps"`
	WorkoutMinutes   float64  `json:"workout_minutes"`
	SleepHours       float64  `json:"sleep_hours"`
	ActualBedtime    string   `json:"actual_bedtime"`
	WaterLiters      float64  `json:"water_liters"`
	ConsistencyScore *float64 `json:"consistency_score"`
	AdditionalScore  *float64 `json:"additional_score"`
}

/* ─── Conversions ────────────────────────────────────────────────────── */

// engineProfile converts the stored profile to an engine.UserProfile.
// Returns ok=false when any required field is missing.
func (p *userProfile) engineProfile() (engine.UserProfile, bool) {
	if p.Age == nil || p.BiologicalSex == nil || p.HeightCM == nil ||
		p.WeightKG == nil || p.Goal == nil || p.ActivityLevel == nil {
		return engine.UserProfile{}, false
	}
	return engine.UserProfile{
		Age:              *p.Age,
		BiologicalSex:    engine.BiologicalSex(*p.BiologicalSex),
		HeightCm:         *p.HeightCM,
		WeightKg:         *p.WeightKG,
		Goal:             engine.Goal(*p.Goal),
		ActivityLevel:    engine.ActivityLevel(*p.ActivityLevel),
		TargetBedtime:    p.TargetBedtime,
		TargetSleepHours: p.TargetSleepHours,
	}, true
}

// populateComputedTargets fills the computed-only fields on p.
// No-ops if any required profile field is missing.
func populateComputedTargets(p *userProfile) {
	ep, ok := p.engineProfile()
	if !ok {
		return
	}
	r := engine.CalculateCalorieRange(ep)
	m := engine.CalculateMacroTargets(ep)
	p.CalorieRange = &r
	p.MacroTargets = &m

	strategy, err := engine.StrategyByName(p.GoalStrategy, p.WeeklyPaceKG)
	if err != nil {
		strategy = engine.FixedPercentStrategy{}
	}
	g := strategy.DailyGoals(ep)
	p.DailyGoals = &g
}

// engineMeals converts stored meals to engine meals, preserving order.
func engineMeals(meals []meal) []engine.Meal {
	out := make([]engine.Meal, len(meals))
	for i, m := range meals {
		out[i] = engine.Meal{
			Calories:     m.Calories,
			ProteinGrams: m.ProteinG,
			CarbsGrams:   m.CarbsG,
			FatGrams:     m.FatG,
			MealType:     engine.MealType(m.MealType),
		}
	}
	return out
}

func (a dailyActuals) engineActuals() engine.DailyActuals {
	return engine.DailyActuals{
		Steps:            a.Steps,
		WorkoutMinutes:   a.WorkoutMinutes,
		SleepHours:       a.SleepHours,
		ActualBedtime:    a.ActualBedtime,
		WaterLiters:      a.WaterLiters,
		ConsistencyScore: a.ConsistencyScore,
		AdditionalScore:  a.AdditionalScore,
	}
}

// newScoreRecord flattens a computed score for insertion.
func newScoreRecord(id string, userID int, s engine.LifestyleScore) lifestyleScoreRecord {
	c := s.Components
	return lifestyleScoreRecord{
		ID:                 id,
		UserID:             userID,
		Date:               DateOnly{s.Date},
		OverallScore:       s.OverallScore,
		NutritionScore:     c.NutritionScore(),
		ActivityScore:      c.ActivityScore(),
		SleepScore:         c.SleepScore(),
		HydrationScore:     c.HydrationScore,
		ConsistencyScore:   c.ConsistencyScore,
		AdditionalScore:    c.AdditionalScore,
		CalorieAdherence:   c.CalorieAdherence,
		MacroBalance:       c.MacroBalance,
		StepsScore:         c.StepsScore,
		WorkoutScore:       c.WorkoutScore,
		SleepDuration:      c.SleepDuration,
		BedtimeConsistency: c.BedtimeConsistency,
		ComputedAt:         s.ComputedAt,
	}
}
