package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/middleware"
)

const (
	profileSavedMessage = "Profile updated successfully!"
	noFileMessage       = "You must select an image to upload."
)

// GetProfile handles GET /api/v1/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	page := h.page.Current(ctx, h.pageID(c))
	p, err := h.profile.Fetch(ctx, page.Session)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "email": page.Session.Email})
}

// SaveProfile handles PUT /api/v1/profile: one upsert of the full row.
// Outcomes use the "alert" placement — the client shows them as a blocking
// acknowledgment.
func (h *Handler) SaveProfile(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.FromContext(ctx)

	var upd logicv1.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		logger.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := h.page.Current(ctx, h.pageID(c))
	p, err := h.profile.Save(ctx, page.Session, upd)
	if err != nil {
		if errors.Is(err, logicv1.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		logger.Error().Err(err).Msg("Profile save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"alert": err.Error()})
		return
	}

	logger.Info().Str("user_id", p.ID).Msg("Profile saved")
	c.JSON(http.StatusOK, gin.H{"alert": profileSavedMessage, "profile": p})
}

// UploadAvatar handles POST /api/v1/profile/avatar (multipart). The blob is
// stored under a generated name and the public URL is persisted on the row
// immediately.
func (h *Handler) UploadAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.FromContext(ctx)

	page := h.page.Current(ctx, h.pageID(c))
	if page.Session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"alert": noFileMessage})
		return
	}
	f, err := fh.Open()
	if err != nil {
		logger.Error().Err(err).Msg("Avatar open failed")
		c.JSON(http.StatusBadRequest, gin.H{"alert": noFileMessage})
		return
	}
	defer f.Close()

	url, err := h.profile.UploadAvatar(ctx, page.Session, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, logicv1.ErrNoFileSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"alert": noFileMessage})
			return
		}
		logger.Error().Err(err).Msg("Avatar upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"alert": err.Error()})
		return
	}

	logger.Info().Str("user_id", page.Session.UserID).Msg("Avatar uploaded")
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
