package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/eebmagic/lagnuage-immersion-app/services"
	"github.com/eebmagic/lagnuage-immersion-app/srs"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

var validate = validator.New()

const requestTimeout = 10 * time.Second

type repRequest struct {
	Vocab    []string `json:"vocab" validate:"required,min=1"`
	Strength string   `json:"strength" validate:"required"`
	// Pointer so a zero timestamp still counts as present.
	ReviewTime *float64 `json:"review_time" validate:"required"`
}

// PostRep applies a batch of review outcomes. The response code follows the
// aggregate disposition: 200 all updated, 204 all unknown ids, 422 all
// failed writes, 207 mixed with per-item statuses.
func PostRep(retrieval *services.Retrieval) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		var body repRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review payload"})
			return
		}
		if validationErr := validate.Struct(body); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, results, err := retrieval.ApplyReviewBatch(ctx, username, body.Strength, *body.ReviewTime, body.Vocab)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			case errors.Is(err, services.ErrUnknownStrength):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		switch status {
		case services.BatchSuccess:
			c.JSON(http.StatusOK, gin.H{"status": "updated", "results": results})
		case services.BatchNothingToUpdate:
			c.Status(http.StatusNoContent)
		case services.BatchFailed:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "failed", "results": results})
		default:
			c.JSON(http.StatusMultiStatus, gin.H{"status": "partial", "results": results})
		}
	}
}

// GetRep returns the n most due vocabulary items for a user with one
// representative snippet each.
func GetRep(retrieval *services.Retrieval) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		mode, err := srs.ParseRankMode(c.DefaultQuery("rank_type", string(srs.RankRecent)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a non-negative integer"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := retrieval.GetDueWords(ctx, n, mode, username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		vocab := make([]gin.H, 0, len(result.Vocab))
		for _, r := range result.Vocab {
			vocab = append(vocab, gin.H{"id": r.Item.ID, "score": r.Score})
		}
		c.JSON(http.StatusOK, gin.H{"vocab": vocab, "snippets": result.Snippets})
	}
}
