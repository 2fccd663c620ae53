package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/middleware"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

// OpenConversation handles POST /api/v1/chat/conversations: one conversation
// per widget mount, seeded with the greeting.
func (h *Handler) OpenConversation(c *gin.Context) {
	ctx := c.Request.Context()

	conv, err := h.chat.Open(ctx)
	if err != nil {
		middleware.FromContext(ctx).Error().Err(err).Msg("Conversation open failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// GetConversation handles GET /api/v1/chat/conversations/:id.
func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.chat.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, logicv1.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// SendMessage handles POST /api/v1/chat/conversations/:id/messages.
// Empty text and a turn arriving while one is outstanding are both no-ops
// (204): ignored, not queued, no error surfaced. A model failure never
// reaches this layer as an error — it comes back as the apology bot reply
// inside the transcript.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.FromContext(ctx)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.chat.Send(ctx, c.Param("id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrEmptyMessage), errors.Is(err, logicv1.ErrTurnInFlight):
			c.Status(http.StatusNoContent)
		case errors.Is(err, logicv1.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			logger.Error().Err(err).Msg("Chat send failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, conv)
}

// CloseConversation handles DELETE /api/v1/chat/conversations/:id: widget
// unmount. The transcript is gone for good; a remount starts from the
// greeting again.
func (h *Handler) CloseConversation(c *gin.Context) {
	if err := h.chat.Close(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
