package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"oversound/internal/events"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseInjectsUserAndEmits(t *testing.T) {
	f := newFakeUpstream(t)
	pub := &recordingPublisher{}
	svc := NewCommerceService(f.client(upstream.Commerce), pub)

	body := make(chan string, 1)
	f.handle(http.MethodPost, "/purchase", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body <- string(b)
		w.Write([]byte(`{"orderId": 77}`))
	})

	out, err := svc.Purchase(context.Background(), map[string]any{"cartId": 1, "userId": 999}, &oversound.Session{UserID: 3}, "tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cartId": 1, "userId": 3}`, <-body)
	assert.Equal(t, map[string]any{"orderId": float64(77)}, out)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypePurchased, pub.events[0].Type)
}

func TestCommercePassThrough(t *testing.T) {
	f := newFakeUpstream(t)
	svc := NewCommerceService(f.client(upstream.Commerce), nil)
	f.json("/cart", `[{"productId": 1}]`)
	f.reply(http.MethodDelete, "/cart/1", http.StatusNoContent, ``)
	f.reply(http.MethodDelete, "/payment/2", http.StatusNotFound, `{"error": "no such method"}`)

	cart, err := svc.Cart(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	out, err := svc.RemoveFromCart(context.Background(), 1, "tok")
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = svc.DeletePaymentMethod(context.Background(), 2, "tok")
	assert.ErrorIs(t, err, upstream.ErrNotFound)
}
