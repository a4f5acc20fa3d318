package handlers

import (
	"net/http"

	"oversound/internal/service"

	"github.com/gin-gonic/gin"
)

// CommerceHandler covers cart, purchase and payment methods. All routes
// require a session.
type CommerceHandler struct {
	commerce *service.CommerceService
}

func NewCommerceHandler(commerce *service.CommerceService) *CommerceHandler {
	return &CommerceHandler{commerce: commerce}
}

func (h *CommerceHandler) respond(c *gin.Context, out any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondPayload(c, http.StatusOK, out)
}

func (h *CommerceHandler) Cart(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	out, err := h.commerce.Cart(c.Request.Context(), sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) AddToCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	body, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.commerce.AddToCart(c.Request.Context(), body, sess, sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) RemoveFromCart(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.commerce.RemoveFromCart(c.Request.Context(), id, sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) Purchase(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	body, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.commerce.Purchase(c.Request.Context(), body, sess, sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) PaymentMethods(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	out, err := h.commerce.PaymentMethods(c.Request.Context(), sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) AddPaymentMethod(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	body, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.commerce.AddPaymentMethod(c.Request.Context(), body, sessionToken(c))
	h.respond(c, out, err)
}

func (h *CommerceHandler) DeletePaymentMethod(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.commerce.DeletePaymentMethod(c.Request.Context(), id, sessionToken(c))
	h.respond(c, out, err)
}
