package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/middleware"
)

const (
	notImageMessage    = "Please upload a valid image file (PNG, JPG, etc.)."
	analyzeFailMessage = "Failed to analyze the image. Please try again."
	selectImageMessage = "You must select an image to upload."
)

// AnalyzeImage handles POST /api/v1/vision/analyze (multipart "image").
// Validation failures are inline and never reach the model; remote failures
// collapse to one generic message with the cause only logged. A response
// superseded by a newer upload from the same page is discarded (204).
func (h *Handler) AnalyzeImage(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.FromContext(ctx)

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectImageMessage})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectImageMessage})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error().Err(err).Msg("Image read failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": analyzeFailMessage})
		return
	}

	text, err := h.vision.Analyze(ctx, h.pageID(c), fh.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrNotAnImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": notImageMessage})
		case errors.Is(err, logicv1.ErrNoFileSelected):
			c.JSON(http.StatusBadRequest, gin.H{"error": selectImageMessage})
		case errors.Is(err, logicv1.ErrAnalysisSuperseded):
			c.Status(http.StatusNoContent)
		default:
			// Cause logged in the service; the user only sees the generic
			// message.
			c.JSON(http.StatusBadGateway, gin.H{"error": analyzeFailMessage})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": text})
}
