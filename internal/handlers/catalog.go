package handlers

import (
	"net/http"

	"oversound/internal/service"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves song, album, merch and artist pages and their writes.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) GetSong(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalog.SongDetail(c.Request.Context(), id, currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) GetAlbum(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalog.AlbumDetail(c.Request.Context(), id, currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) GetMerch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalog.MerchDetail(c.Request.Context(), id, currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) GetArtist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.ArtistProfile(c.Request.Context(), id, currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ArtistLabel is kept for old clients; artists no longer expose a label here.
func (h *CatalogHandler) ArtistLabel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"label":    nil,
		"is_owner": sess.IsArtist() && sess.ArtistID.Int == id,
	})
}

// Delete returns the DELETE handler for kind.
func (h *CatalogHandler) Delete(kind oversound.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := h.catalog.Delete(c.Request.Context(), kind, id, currentSession(c), sessionToken(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": string(kind) + " deleted", kind.IDField(): id})
	}
}

// Update returns the PUT handler for kind.
func (h *CatalogHandler) Update(kind oversound.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		body, ok := bindObject(c)
		if !ok {
			return
		}
		out, err := h.catalog.Update(c.Request.Context(), kind, id, body, currentSession(c), sessionToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respondPayload(c, http.StatusOK, out)
	}
}

// Upload returns the create handler for kind.
func (h *CatalogHandler) Upload(kind oversound.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := bindObject(c)
		if !ok {
			return
		}
		id, err := h.catalog.Upload(c.Request.Context(), kind, body, currentSession(c), sessionToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": string(kind) + " uploaded", kind.IDField(): id})
	}
}

func (h *CatalogHandler) CreateArtist(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	id, err := h.catalog.CreateArtist(c.Request.Context(), body, currentSession(c), sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist profile created", "artistId": id})
}
