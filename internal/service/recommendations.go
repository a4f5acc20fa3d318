package service

import (
	"context"
	"net/http"

	"oversound/internal/metrics"
	"oversound/internal/upstream"

	"github.com/tidwall/gjson"
)

type RecommendationService struct {
	recommendations Upstream
}

func NewRecommendationService(recommendations Upstream) *RecommendationService {
	return &RecommendationService{recommendations: recommendations}
}

// Feed forwards the caller's recommendation feed. Any failure, or a
// payload that is not a JSON array, yields an empty list.
func (s *RecommendationService) Feed(ctx context.Context, token string) []any {
	raw, err := s.recommendations.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: "/recommendations", Token: token, Class: upstream.Listing})
	if err != nil {
		fallback("recommendations", nil, err)
		return []any{}
	}
	feed := gjson.ParseBytes(raw)
	if !feed.IsArray() {
		metrics.RecordFallback("recommendations")
		return []any{}
	}
	out := []any{}
	for _, item := range feed.Array() {
		out = append(out, item.Value())
	}
	return out
}
