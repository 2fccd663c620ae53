package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/middleware"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login.
// The form contract is one response per submit: success or the remote error
// message verbatim, never a retry. Failed logins keep the fields intact.
func (h *Handler) Login(c *gin.Context) {
	h.submit(c, logicv1.ModeLogin)
}

// Signup handles POST /api/v1/auth/signup.
// Success yields the fixed verification reminder and clears the fields.
func (h *Handler) Signup(c *gin.Context) {
	h.submit(c, logicv1.ModeSignup)
}

func (h *Handler) submit(c *gin.Context, mode logicv1.Mode) {
	ctx := c.Request.Context()
	logger := middleware.FromContext(ctx)

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.auth.Submit(ctx, h.pageID(c), logicv1.SubmitRequest{
		Email:    req.Email,
		Password: req.Password,
		Mode:     mode,
	})
	if !result.Success {
		logger.Warn().Str("mode", string(mode)).Msg("Auth submission failed")
	} else {
		logger.Info().Str("mode", string(mode)).Msg("Auth submission succeeded")
	}

	// Inline placement: the outcome message travels in the body either way.
	c.JSON(http.StatusOK, result)
}

// SignOut handles POST /api/v1/auth/signout. The view transition happens
// through the page controller, not here; the show-auth latch is untouched.
// Plain form submissions are redirected back to / so the next view renders.
func (h *Handler) SignOut(c *gin.Context) {
	h.auth.SignOut(c.Request.Context(), h.pageID(c))
	if formSubmission(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// ShowAuth handles POST /api/v1/page/show-auth: sets the one-way latch that
// swaps the anonymous marketing view for the auth form. Plain form
// submissions are redirected back to / so the next view renders.
func (h *Handler) ShowAuth(c *gin.Context) {
	h.page.ShowAuth(h.pageID(c))
	if formSubmission(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
