package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/lifestyle-score-api/engine"
)

// validateMealValues rejects negative nutrition values before they are stored.
func validateMealValues(values ...float64) error {
	for _, v := range values {
		if v < 0 {
			return errors.New("calories, protein_g, carbs_g and fat_g must not be negative")
		}
	}
	return nil
}

// getDailyMeals returns the day's meals with totals and macro percentages
// aggregated by the engine.
// GET /api/meals/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, err := parseDateParam(c.Query("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	dateStr := date.Format("2006-01-02")

	meals, err := queryMany[meal](c, h.db,
		`SELECT * FROM meals
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at, id`,
		pgx.NamedArgs{"userID": userID, "date": dateStr})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	c.JSON(http.StatusOK, buildDailyMealsResponse(dateStr, meals))
}

// buildDailyMealsResponse runs the stored meals through the engine aggregator.
func buildDailyMealsResponse(dateStr string, meals []meal) dailyMealsResponse {
	summary := engine.DailyMealSummary{Meals: engineMeals(meals)}
	return dailyMealsResponse{
		Date:           dateStr,
		Meals:          meals,
		Totals:         summary.Totals(),
		ProteinPercent: summary.ProteinPercent(),
		CarbsPercent:   summary.CarbsPercent(),
		FatPercent:     summary.FatPercent(),
		CaloriesByType: summary.CaloriesByMealType(),
	}
}

// createMeal logs a new meal.
// POST /api/meals. Defaults date to today if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	mealType, err := engine.ParseMealType(body.MealType)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateMealValues(body.Calories, body.ProteinG, body.CarbsG, body.FatG); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDateParam(body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	m, err := queryOne[meal](c, h.db,
		`INSERT INTO meals (user_id, date, name, meal_type, calories, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @name, @mealType, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": date.Format("2006-01-02"), "name": body.Name,
			"mealType": string(mealType), "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, m)
}

// updateMeal applies an explicit correction to a logged meal.
// PUT /api/meals/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date     *string  `json:"date"`
		Name     *string  `json:"name"`
		MealType *string  `json:"meal_type"`
		Calories *float64 `json:"calories"`
		ProteinG *float64 `json:"protein_g"`
		CarbsG   *float64 `json:"carbs_g"`
		FatG     *float64 `json:"fat_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.MealType != nil {
		mt, err := engine.ParseMealType(*body.MealType)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		*body.MealType = string(mt)
	}
	if body.Date != nil {
		if _, err := parseDateParam(*body.Date); err != nil || *body.Date == "" {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	for _, v := range []*float64{body.Calories, body.ProteinG, body.CarbsG, body.FatG} {
		if v != nil {
			if err := validateMealValues(*v); err != nil {
				apiError(c, http.StatusBadRequest, err.Error())
				return
			}
		}
	}

	m, err := queryOne[meal](c, h.db,
		`UPDATE meals SET
			date      = COALESCE(@date::date, date),
			name      = COALESCE(@name, name),
			meal_type = COALESCE(@mealType, meal_type),
			calories  = COALESCE(@calories, calories),
			protein_g = COALESCE(@proteinG, protein_g),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			fat_g     = COALESCE(@fatG, fat_g),
			updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "name": body.Name, "mealType": body.MealType,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update meal")
		}
		return
	}

	c.JSON(http.StatusOK, m)
}

// deleteMeal removes a logged meal. Returns 204 on success, 404 if not found.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}
