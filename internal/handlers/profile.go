package handlers

import (
	"net/http"

	"oversound/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	sessions *service.SessionService
}

func NewProfileHandler(sessions *service.SessionService) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

func (h *ProfileHandler) Own(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	p, err := h.sessions.Profile(c.Request.Context(), sess, sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Public(c *gin.Context) {
	p, err := h.sessions.PublicProfile(c.Request.Context(), c.Param("username"), currentSession(c), sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// User returns the raw user record.
func (h *ProfileHandler) User(c *gin.Context) {
	user, err := h.sessions.User(c.Request.Context(), c.Param("username"), sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Favorite handles both POST (add) and DELETE (remove) on /favs/:type/:id.
func (h *ProfileHandler) Favorite(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.sessions.Favorite(c.Request.Context(), c.Request.Method, c.Param("type"), id, sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPayload(c, http.StatusOK, out)
}
