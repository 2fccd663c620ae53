// Package v1 exposes the HTTP surface: the rendered site at / and the JSON
// API under /api/v1.
//
// Failure placement differs per surface on purpose (the widgets depend on
// it): auth and the image analyzer report inline "error"/"message" fields,
// profile save and avatar upload report an "alert" field the client renders
// as a blocking alert, and chat failures never surface at all — they come
// back as a regular bot reply.
package v1

import (
	"github.com/gin-gonic/gin"

	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
)

// pageCookie identifies the browser's page context. It is the only state a
// client holds; sessions and transcripts live server-side.
const pageCookie = "lore_page"

// Handler groups HTTP handlers for the site and API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	page    *logicv1.PageService
	auth    *logicv1.AuthService
	profile *logicv1.ProfileService
	chat    *logicv1.ChatService
	vision  *logicv1.VisionService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(
	page *logicv1.PageService,
	auth *logicv1.AuthService,
	profile *logicv1.ProfileService,
	chat *logicv1.ChatService,
	vision *logicv1.VisionService,
) *Handler {
	return &Handler{
		page:    page,
		auth:    auth,
		profile: profile,
		chat:    chat,
		vision:  vision,
	}
}

// RegisterRoutes registers the API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/signout", h.SignOut)

	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.SaveProfile)
	rg.POST("/profile/avatar", h.UploadAvatar)

	rg.POST("/chat/conversations", h.OpenConversation)
	rg.GET("/chat/conversations/:id", h.GetConversation)
	rg.POST("/chat/conversations/:id/messages", h.SendMessage)
	rg.DELETE("/chat/conversations/:id", h.CloseConversation)

	rg.POST("/vision/analyze", h.AnalyzeImage)

	rg.POST("/page/show-auth", h.ShowAuth)
	rg.GET("/page/events", h.PageEvents)
}

// RegisterPages registers the rendered site routes on the engine root.
func (h *Handler) RegisterPages(r *gin.Engine) {
	r.GET("/", h.Index)
}

// formSubmission reports whether the request came straight from an HTML
// form rather than the client script, which always posts JSON. Form
// submissions navigate, so they get a redirect instead of a JSON body.
func formSubmission(c *gin.Context) bool {
	return c.ContentType() == "application/x-www-form-urlencoded"
}

// pageID resolves the browser's page context from the cookie, opening a new
// context (and setting the cookie) when none exists yet.
func (h *Handler) pageID(c *gin.Context) string {
	id, _ := c.Cookie(pageCookie)
	ensured := h.page.Ensure(id)
	if ensured != id {
		c.SetCookie(pageCookie, ensured, 0, "/", "", false, true)
	}
	return ensured
}
