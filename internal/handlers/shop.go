package handlers

import (
	"log"
	"net/http"
	"strings"

	"oversound/internal/service"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	catalog *service.CatalogService
}

func NewShopHandler(catalog *service.CatalogService) *ShopHandler {
	return &ShopHandler{catalog: catalog}
}

// Shop serves the filtered catalog page. genres and artists may be given
// as a comma list or as repeated parameters.
func (h *ShopHandler) Shop(c *gin.Context) {
	criteria := oversound.FilterCriteria{
		Order:     c.Query("order"),
		Direction: c.Query("direction"),
		Genres:    strings.Join(c.QueryArray("genres"), ","),
		Artists:   strings.Join(c.QueryArray("artists"), ","),
	}
	log.Printf("[Shop] [%s] order=%q direction=%q genres=%q artists=%q",
		c.GetHeader("User-Agent"), criteria.Order, criteria.Direction, criteria.Genres, criteria.Artists)

	c.JSON(http.StatusOK, h.catalog.Shop(c.Request.Context(), criteria))
}
