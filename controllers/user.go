package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/services"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// GetUser resolves a profile by id or username.
func GetUser(users *services.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		username := c.Query("username")
		if id == "" && username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id or username is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := users.Get(ctx, id, username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PutUser applies a partial, path-matching update to a profile. Only keys
// already present in the stored document with the same value type are
// overwritten.
func PutUser(users *services.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		var patch map[string]any
		if err := c.BindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		merged, err := users.Patch(ctx, id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, merged)
	}
}

// PostUser registers a new profile with default repetition constants.
func PostUser(users *services.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := users.Create(ctx, username)
		if err != nil {
			if errors.Is(err, services.ErrUsernameTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
