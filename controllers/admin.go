package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/services"
)

type ingestRequest struct {
	Snippets []models.Snippet        `json:"snippets"`
	Vocab    []models.VocabularyItem `json:"vocab"`
}

// PostIngest bulk-loads pre-processed snippet and vocabulary documents.
func PostIngest(loader *services.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ingestRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingest payload"})
			return
		}
		if len(body.Snippets) == 0 && len(body.Vocab) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to ingest"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		inserted, merged, err := loader.Ingest(ctx, body.Snippets, body.Vocab)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"inserted": inserted, "merged": merged})
	}
}

// PostFlush drops the vocabulary and snippet collections.
func PostFlush(loader *services.Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := loader.Flush(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "flushed"})
	}
}
