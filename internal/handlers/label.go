package handlers

import (
	"context"
	"net/http"

	"oversound/internal/service"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
)

type LabelHandler struct {
	catalog *service.CatalogService
}

func NewLabelHandler(catalog *service.CatalogService) *LabelHandler {
	return &LabelHandler{catalog: catalog}
}

func (h *LabelHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalog.LabelDetail(c.Request.Context(), id, currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *LabelHandler) Create(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	id, err := h.catalog.CreateLabel(c.Request.Context(), body, currentSession(c), sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label created", "labelId": id})
}

func (h *LabelHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	body, ok := bindObject(c)
	if !ok {
		return
	}
	if err := h.catalog.UpdateLabel(c.Request.Context(), id, body, currentSession(c), sessionToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label updated", "labelId": id})
}

type labelAction func(ctx context.Context, id int, sess *oversound.Session, token string) error

func (h *LabelHandler) run(action labelAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := action(c.Request.Context(), id, currentSession(c), sessionToken(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "labelId": id})
	}
}

func (h *LabelHandler) Delete() gin.HandlerFunc { return h.run(h.catalog.DeleteLabel, "Label deleted") }
func (h *LabelHandler) Join() gin.HandlerFunc   { return h.run(h.catalog.JoinLabel, "Joined label") }
func (h *LabelHandler) Leave() gin.HandlerFunc  { return h.run(h.catalog.LeaveLabel, "Left label") }

func (h *LabelHandler) RemoveArtist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	artistID, ok := paramID(c, "artistId")
	if !ok {
		return
	}
	if err := h.catalog.RemoveLabelArtist(c.Request.Context(), id, artistID, currentSession(c), sessionToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist removed from label", "labelId": id, "artistId": artistID})
}

// UserLabel is kept for old clients; users no longer own a label through it.
func (h *LabelHandler) UserLabel(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_label": false})
}
