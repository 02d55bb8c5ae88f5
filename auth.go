package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a username isn't found so login takes
// the same time either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login verifies username/password and returns the user's auth token.
// profile_complete tells the client whether onboarding still has to collect
// body metrics before targets and scores are available.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	u, lookupErr := queryOne[user](c, h.db,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})
	if lookupErr != nil && !errors.Is(lookupErr, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "login failed")
		return
	}

	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))
	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	profile, err := queryOne[userProfile](c, h.db,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": u.ID})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "login failed")
		return
	}
	_, complete := profile.engineProfile()

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID, "profile_complete": complete})
}

// authMiddleware resolves the Bearer token to a user and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || token == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		var userID int
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		if err != nil {
			log.Printf("[authMiddleware] token lookup failed: %v", err)
			apiError(c, http.StatusInternalServerError, "auth lookup failed")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
