package handlers

import (
	"net/http"

	"oversound/internal/service"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommendations.Feed(c.Request.Context(), sessionToken(c)))
}
