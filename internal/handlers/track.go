package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"oversound/internal/service"

	"github.com/gin-gonic/gin"
)

type TrackHandler struct {
	tracks *service.TrackService
}

func NewTrackHandler(tracks *service.TrackService) *TrackHandler {
	return &TrackHandler{tracks: tracks}
}

// Stream serves decoded track audio. Range requests are answered with 206
// so players can seek.
func (h *TrackHandler) Stream(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	log.Printf("[Stream] [%s] %s %s", c.GetHeader("User-Agent"), c.Request.Method, c.Request.URL.String())

	track, err := h.tracks.Track(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", track.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", track.Filename))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")
	http.ServeContent(c.Writer, c.Request, track.Filename, time.Time{}, bytes.NewReader(track.Data))
}
