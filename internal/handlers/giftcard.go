package handlers

import (
	"log/slog"
	"net/http"

	"oversound/internal/service"

	"github.com/gin-gonic/gin"
)

func CreateGiftCard(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body", "field": "body"})
		return
	}
	req, err := service.ParseGiftCardRequest(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	card, err := service.IssueGiftCard(req)
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Gift card issued", "userId", sess.UserID, "amount", card.Amount.String())
	c.JSON(http.StatusOK, card)
}
