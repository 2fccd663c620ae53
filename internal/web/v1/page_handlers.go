package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/internal/pagestate"
)

// Index handles GET /: the root view switch. The session is re-derived from
// the page context on every load, then the view is resolved purely from
// (session, show-auth latch).
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	pageID := h.pageID(c)

	page := h.page.Current(ctx, pageID)
	switch page.View() {
	case pagestate.ViewProfile:
		p, err := h.profile.Fetch(ctx, page.Session)
		if err != nil {
			// Session disappeared between resolve and fetch; fall back to
			// the anonymous view.
			c.HTML(http.StatusOK, "marketing.html.tmpl", gin.H{"Greeting": logicv1.Greeting})
			return
		}
		c.HTML(http.StatusOK, "profile.html.tmpl", gin.H{
			"Profile": p,
			"Email":   page.Session.Email,
		})

	case pagestate.ViewAuth:
		c.HTML(http.StatusOK, "auth.html.tmpl", gin.H{})

	default:
		c.HTML(http.StatusOK, "marketing.html.tmpl", gin.H{"Greeting": logicv1.Greeting})
	}
}

// PageEvents handles GET /api/v1/page/events: a server-sent event stream of
// view changes for the page context. Rendered pages subscribe so a session
// change (login in another tab, sign-out, expiry) re-renders without
// polling. The subscription is torn down when the client disconnects.
func (h *Handler) PageEvents(c *gin.Context) {
	pageID := h.pageID(c)
	changes, cancel := h.page.Watch(pageID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Current view first, so a client reconnecting after a missed change
	// converges immediately.
	c.SSEvent("view", h.page.Snapshot(pageID).View().String())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case _, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("view", h.page.Snapshot(pageID).View().String())
			return true
		}
	})
}
