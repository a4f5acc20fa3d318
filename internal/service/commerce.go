package service

import (
	"context"
	"fmt"
	"net/http"

	"oversound/internal/events"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"
)

// CommerceService passes cart, purchase and payment calls through to the
// commerce upstream with the caller's session.
type CommerceService struct {
	commerce Upstream
	events   events.Publisher
}

func NewCommerceService(commerce Upstream, publisher events.Publisher) *CommerceService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CommerceService{commerce: commerce, events: publisher}
}

func (s *CommerceService) call(ctx context.Context, method, path string, body any, token string) (any, error) {
	class := upstream.Write
	if method == http.MethodGet {
		class = upstream.Lookup
	}
	raw, err := s.commerce.DoRaw(ctx, upstream.Call{Method: method, Path: path, Body: body, Token: token, Class: class})
	if err != nil {
		return nil, err
	}
	return decodeOptional(raw), nil
}

func (s *CommerceService) Cart(ctx context.Context, token string) (any, error) {
	return s.call(ctx, http.MethodGet, "/cart", nil, token)
}

// AddToCart stamps the caller's user id on the item.
func (s *CommerceService) AddToCart(ctx context.Context, item map[string]any, sess *oversound.Session, token string) (any, error) {
	item["userId"] = sess.UserID
	return s.call(ctx, http.MethodPost, "/cart", item, token)
}

func (s *CommerceService) RemoveFromCart(ctx context.Context, productID int, token string) (any, error) {
	return s.call(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", productID), nil, token)
}

// Purchase checks out the cart: {cartId, paymentMethodId, shippingAddress}.
func (s *CommerceService) Purchase(ctx context.Context, order map[string]any, sess *oversound.Session, token string) (any, error) {
	order["userId"] = sess.UserID
	out, err := s.call(ctx, http.MethodPost, "/purchase", order, token)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.events, events.New(events.TypePurchased, "purchase", 0, sess.UserID))
	return out, nil
}

func (s *CommerceService) PaymentMethods(ctx context.Context, token string) (any, error) {
	return s.call(ctx, http.MethodGet, "/payment", nil, token)
}

func (s *CommerceService) AddPaymentMethod(ctx context.Context, method map[string]any, token string) (any, error) {
	return s.call(ctx, http.MethodPost, "/payment", method, token)
}

func (s *CommerceService) DeletePaymentMethod(ctx context.Context, id int, token string) (any, error) {
	return s.call(ctx, http.MethodDelete, fmt.Sprintf("/payment/%d", id), nil, token)
}
