package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/lifestyle-score-api/engine"
)

// Handler holds shared dependencies (db pool, score calculator) for all route handlers.
type Handler struct {
	db   *pgxpool.Pool
	calc *engine.Calculator
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T. Never returns a nil
// slice on success so JSON encodes [] rather than null.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// parseDateParam validates a YYYY-MM-DD value, defaulting to today when empty.
func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. Simple query protocol avoids "cached
// plan must not change result type" errors after schema migrations.
func getDBPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes. The calculator endpoints are stateless.
	router.POST("/api/login", h.login)
	router.POST("/api/targets/calorie-range", h.postCalorieRange)
	router.POST("/api/targets/macros", h.postMacroTargets)
	router.POST("/api/targets/daily-goals", h.postDailyGoals)
	router.POST("/api/lifestyle-score/compute", h.computeLifestyleScore)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/meals/daily", h.getDailyMeals)
	api.POST("/meals", h.createMeal)
	api.PUT("/meals/:id", h.updateMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.GET("/daily-actuals", h.getDailyActuals)
	api.PUT("/daily-actuals", h.putDailyActuals)
	api.POST("/lifestyle-score", h.scoreDay)
	api.GET("/lifestyle-score/history", h.getScoreHistory)
}
