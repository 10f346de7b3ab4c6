package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/services"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

// GetSnippets returns vocabulary ordered for new-word introduction (soonest
// next_review, then descending word frequency) with example snippets.
func GetSnippets(retrieval *services.Retrieval) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.DefaultQuery("n", "20"))
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a non-negative integer"})
			return
		}
		numParents, err := strconv.Atoi(c.DefaultQuery("num_parents", "2"))
		if err != nil || numParents < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "num_parents must be a non-negative integer"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := retrieval.GetFrequentWords(ctx, n, numParents)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"vocab": result.Vocab, "snippets": result.Snippets})
	}
}

// GetNextMediaSnippet returns the snippet following the given one within
// its source document.
func GetNextMediaSnippet(retrieval *services.Retrieval) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		snip, err := retrieval.NextMediaSnippet(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No next snippet"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snip)
	}
}
