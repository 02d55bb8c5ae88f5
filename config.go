package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"lg/lifestyle-score-api/engine"
)

// appConfig holds server configuration loaded from the environment (and .env).
type appConfig struct {
	Port           string
	DBURL          string
	AllowedOrigins []string
	Score          engine.ScoreConfig
}

// loadConfig reads the environment. Score goals start from
// engine.DefaultScoreConfig and are overridden by SCORE_* variables.
func loadConfig() (appConfig, error) {
	score := engine.DefaultScoreConfig()
	score.GoalSteps = getEnvInt("SCORE_GOAL_STEPS", score.GoalSteps)
	score.GoalWaterLiters = getEnvFloat("SCORE_GOAL_WATER_LITERS", score.GoalWaterLiters)
	score.BedtimeWrapsMidnight = getEnvBool("SCORE_BEDTIME_WRAPS_MIDNIGHT", score.BedtimeWrapsMidnight)
	if err := score.Validate(); err != nil {
		return appConfig{}, fmt.Errorf("score config: %w", err)
	}

	cfg := appConfig{
		Port:           getEnv("PORT", "3000"),
		DBURL:          os.Getenv("DB_URL"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Score:          score,
	}
	if cfg.DBURL == "" {
		return appConfig{}, fmt.Errorf("DB_URL is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("[loadConfig] ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("[loadConfig] ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("[loadConfig] ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
