package service

import (
	"context"
	"net/http"
	"testing"

	"oversound/internal/upstream"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationFeed(t *testing.T) {
	f := newFakeUpstream(t)
	svc := NewRecommendationService(f.client(upstream.Recommendations))

	assert.Equal(t, []any{}, svc.Feed(context.Background(), "tok"))

	f.json("/recommendations", `{"not": "a list"}`)
	assert.Equal(t, []any{}, svc.Feed(context.Background(), "tok"))

	f.json("/recommendations", `[{"songId": 1}, 2]`)
	feed := svc.Feed(context.Background(), "tok")
	assert.Equal(t, []any{map[string]any{"songId": float64(1)}, float64(2)}, feed)

	calls := f.requests(http.MethodGet, "/recommendations")
	assert.Equal(t, "oversound_auth=tok", calls[len(calls)-1].Header.Get("Cookie"))
}
