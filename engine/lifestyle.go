package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	maxScore       = 10.0
	minutesPerDay  = 24 * 60
	adherenceSlope = 5.0 // points lost per tolerance-width away from the midpoint
	sleepSlope     = 2.0 // points lost per hour off target
	bedtimeSlope   = 2.0 // points lost per hour off target bedtime
)

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v float64) float64 {
	return clamp(v, 0, maxScore)
}

// ratioScore scales actual/goal to 0–10, capping at the goal.
func ratioScore(actual, goal float64) float64 {
	if !(goal > 0) {
		return 0
	}
	return clampScore(math.Min(actual/goal, 1.0) * maxScore)
}

/* ─── Sub-scores ─────────────────────────────────────────────────────── */

// CalorieAdherence is 10 inside the range, otherwise it falls off linearly
// with distance from the midpoint. Under- and over-eating are penalized
// symmetrically.
func CalorieAdherence(consumed float64, r CalorieRange) float64 {
	if r.Contains(consumed) {
		return maxScore
	}
	tol := r.Tolerance()
	if !(tol > 0) {
		return 0
	}
	return clampScore(maxScore - math.Abs(consumed-r.Midpoint())/tol*adherenceSlope)
}

// relativeDeviation returns |consumed-target|/target. A non-positive target
// counts as on-target when nothing was consumed and as a full miss otherwise.
func relativeDeviation(consumed, target float64) float64 {
	if !(target > 0) {
		if consumed == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(consumed-target) / target
}

// MacroBalance averages the relative deviation of protein, carbs and fat from
// their gram targets and maps it to 10 − avg×10.
func MacroBalance(totals MealTotals, m MacroTargets) float64 {
	avg := (relativeDeviation(totals.ProteinGrams, m.ProteinGrams) +
		relativeDeviation(totals.CarbsGrams, m.CarbsGrams) +
		relativeDeviation(totals.FatGrams, m.FatGrams)) / 3
	return clampScore(maxScore - avg*maxScore)
}

// StepsScore is min(steps/goal, 1)×10.
func StepsScore(steps, goalSteps int) float64 {
	return ratioScore(float64(steps), float64(goalSteps))
}

// WorkoutScore is min(minutes/reference, 1)×10.
func WorkoutScore(minutes, referenceMinutes float64) float64 {
	return ratioScore(minutes, referenceMinutes)
}

// HydrationScore is min(liters/goal, 1)×10.
func HydrationScore(liters, goalLiters float64) float64 {
	return ratioScore(liters, goalLiters)
}

// SleepDurationScore is 10 within ±tolerance hours of target, otherwise
// 10 − |difference|×2.
func SleepDurationScore(actualHours, targetHours, toleranceHours float64) float64 {
	diff := math.Abs(actualHours - targetHours)
	if diff <= toleranceHours {
		return maxScore
	}
	return clampScore(maxScore - diff*sleepSlope)
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// BedtimeConsistency is 10 within ±tolerance minutes of the target bedtime,
// otherwise 10 − (Δ/60)×2. Unparseable times score 0. Unless wrapsMidnight is
// set, both times are same-day clock values, so 23:50 vs 00:10 is 1420 minutes.
func BedtimeConsistency(actual, target string, toleranceMinutes float64, wrapsMidnight bool) float64 {
	a, ok := ParseClock(actual)
	if !ok {
		return 0
	}
	t, ok := ParseClock(target)
	if !ok {
		return 0
	}
	delta := a - t
	if delta < 0 {
		delta = -delta
	}
	if wrapsMidnight && delta > minutesPerDay-delta {
		delta = minutesPerDay - delta
	}
	d := float64(delta)
	if d <= toleranceMinutes {
		return maxScore
	}
	return clampScore(maxScore - d/60*bedtimeSlope)
}

/* ─── Components & composite ─────────────────────────────────────────── */

// ScoreComponents holds the sub-scores of one day. Composite scores are
// methods over these fields and the weight table, so they always agree.
type ScoreComponents struct {
	CalorieAdherence   float64
	MacroBalance       float64
	StepsScore         float64
	WorkoutScore       float64
	SleepDuration      float64
	BedtimeConsistency float64
	HydrationScore     float64
	ConsistencyScore   float64
	AdditionalScore    float64

	weights Weights
}

// NewScoreComponents builds components from sub-scores and a weight table.
// Every sub-score is clamped to [0, 10].
func NewScoreComponents(sub ScoreComponents, w Weights) ScoreComponents {
	return ScoreComponents{
		CalorieAdherence:   clampScore(sub.CalorieAdherence),
		MacroBalance:       clampScore(sub.MacroBalance),
		StepsScore:         clampScore(sub.StepsScore),
		WorkoutScore:       clampScore(sub.WorkoutScore),
		SleepDuration:      clampScore(sub.SleepDuration),
		BedtimeConsistency: clampScore(sub.BedtimeConsistency),
		HydrationScore:     clampScore(sub.HydrationScore),
		ConsistencyScore:   clampScore(sub.ConsistencyScore),
		AdditionalScore:    clampScore(sub.AdditionalScore),
		weights:            w,
	}
}

// Weights returns the weight table, falling back to defaults for a zero value.
func (c ScoreComponents) Weights() Weights {
	if c.weights == (Weights{}) {
		return DefaultWeights()
	}
	return c.weights
}

func (c ScoreComponents) NutritionScore() float64 {
	w := c.Weights().Nutrition
	return c.CalorieAdherence*w.CalorieAdherence + c.MacroBalance*w.MacroBalance
}

func (c ScoreComponents) ActivityScore() float64 {
	w := c.Weights().Activity
	return c.StepsScore*w.Steps + c.WorkoutScore*w.Workout
}

func (c ScoreComponents) SleepScore() float64 {
	w := c.Weights().Sleep
	return c.SleepDuration*w.Duration + c.BedtimeConsistency*w.BedtimeConsistency
}

// OverallScore is the weighted composite, clamped to [0, 10].
func (c ScoreComponents) OverallScore() float64 {
	w := c.Weights().Overall
	return clampScore(c.NutritionScore()*w.Nutrition +
		c.ActivityScore()*w.Activity +
		c.SleepScore()*w.Sleep +
		c.HydrationScore*w.Hydration +
		c.ConsistencyScore*w.Consistency +
		c.AdditionalScore*w.Additional)
}

// MarshalJSON includes the composites alongside the sub-scores.
func (c ScoreComponents) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nutrition          float64 `json:"nutrition"`
		Activity           float64 `json:"activity"`
		Sleep              float64 `json:"sleep"`
		Hydration          float64 `json:"hydration"`
		Consistency        float64 `json:"consistency"`
		Additional         float64 `json:"additional"`
		CalorieAdherence   float64 `json:"calorie_adherence"`
		MacroBalance       float64 `json:"macro_balance"`
		StepsScore         float64 `json:"steps_score"`
		WorkoutScore       float64 `json:"workout_score"`
		SleepDuration      float64 `json:"sleep_duration"`
		BedtimeConsistency float64 `json:"bedtime_consistency"`
	}{
		Nutrition:          c.NutritionScore(),
		Activity:           c.ActivityScore(),
		Sleep:              c.SleepScore(),
		Hydration:          c.HydrationScore,
		Consistency:        c.ConsistencyScore,
		Additional:         c.AdditionalScore,
		CalorieAdherence:   c.CalorieAdherence,
		MacroBalance:       c.MacroBalance,
		StepsScore:         c.StepsScore,
		WorkoutScore:       c.WorkoutScore,
		SleepDuration:      c.SleepDuration,
		BedtimeConsistency: c.BedtimeConsistency,
	})
}

// LifestyleScore is one computed score for a date. A recomputation for the
// same date produces a new value.
type LifestyleScore struct {
	Date         time.Time       `json:"date"`
	OverallScore float64         `json:"overall_score"`
	Components   ScoreComponents `json:"components"`
	ComputedAt   time.Time       `json:"computed_at"`
}

// DailyActuals are the day's resolved activity, sleep and hydration values.
// ConsistencyScore and AdditionalScore override the configured defaults
// when set.
type DailyActuals struct {
	Steps            int      `json:"steps"`
	WorkoutMinutes   float64  `json:"workout_minutes"`
	SleepHours       float64  `json:"sleep_hours"`
	ActualBedtime    string   `json:"actual_bedtime"`
	WaterLiters      float64  `json:"water_liters"`
	ConsistencyScore *float64 `json:"consistency_score,omitempty"`
	AdditionalScore  *float64 `json:"additional_score,omitempty"`
}

/* ─── Calculator ─────────────────────────────────────────────────────── */

// Calculator scores days against a fixed ScoreConfig. It holds no mutable
// state and may be shared across goroutines.
type Calculator struct {
	cfg ScoreConfig
	now func() time.Time
}

// NewCalculator returns a Calculator using cfg and the wall clock for ComputedAt.
func NewCalculator(cfg ScoreConfig) *Calculator {
	return &Calculator{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of c that stamps ComputedAt with now().
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	return &Calculator{cfg: c.cfg, now: now}
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() ScoreConfig { return c.cfg }

// Components computes every sub-score for one day.
func (c *Calculator) Components(t Targets, totals MealTotals, a DailyActuals) ScoreComponents {
	consistency := c.cfg.DefaultConsistency
	if a.ConsistencyScore != nil {
		consistency = *a.ConsistencyScore
	}
	additional := c.cfg.DefaultAdditional
	if a.AdditionalScore != nil {
		additional = *a.AdditionalScore
	}
	return NewScoreComponents(ScoreComponents{
		CalorieAdherence:   CalorieAdherence(totals.Calories, t.CalorieRange),
		MacroBalance:       MacroBalance(totals, t.Macros),
		StepsScore:         StepsScore(a.Steps, c.cfg.GoalSteps),
		WorkoutScore:       WorkoutScore(a.WorkoutMinutes, c.cfg.ReferenceWorkoutMinutes),
		SleepDuration:      SleepDurationScore(a.SleepHours, t.TargetSleepHours, c.cfg.SleepToleranceHours),
		BedtimeConsistency: BedtimeConsistency(a.ActualBedtime, t.TargetBedtime, c.cfg.BedtimeToleranceMinutes, c.cfg.BedtimeWrapsMidnight),
		HydrationScore:     HydrationScore(a.WaterLiters, c.cfg.GoalWaterLiters),
		ConsistencyScore:   consistency,
		AdditionalScore:    additional,
	}, c.cfg.Weights)
}

// ScoreTargets scores a day from precomputed targets and meal totals.
func (c *Calculator) ScoreTargets(date time.Time, t Targets, totals MealTotals, a DailyActuals) LifestyleScore {
	comps := c.Components(t, totals, a)
	now := c.now
	if now == nil {
		now = time.Now
	}
	return LifestyleScore{
		Date:         date,
		OverallScore: comps.OverallScore(),
		Components:   comps,
		ComputedAt:   now(),
	}
}

// Score derives targets from p and totals from s, then scores the day.
func (c *Calculator) Score(p UserProfile, s DailyMealSummary, a DailyActuals) LifestyleScore {
	return c.ScoreTargets(s.Date, TargetsFor(p), s.Totals(), a)
}

// CalculateLifestyleScore scores a day with DefaultScoreConfig.
func CalculateLifestyleScore(p UserProfile, s DailyMealSummary, steps int, workoutMinutes, sleepHours float64, actualBedtime string, waterLiters float64) LifestyleScore {
	return NewCalculator(DefaultScoreConfig()).Score(p, s, DailyActuals{
		Steps:          steps,
		WorkoutMinutes: workoutMinutes,
		SleepHours:     sleepHours,
		ActualBedtime:  actualBedtime,
		WaterLiters:    waterLiters,
	})
}
