package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"oversound/internal/events"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Upstream is the part of *upstream.Client the services use.
type Upstream interface {
	Do(ctx context.Context, call upstream.Call, out any) error
	DoRaw(ctx context.Context, call upstream.Call) ([]byte, error)
}

// CatalogService resolves catalog entities and expands their relations.
// It keeps no state between requests.
type CatalogService struct {
	catalog     Upstream
	session     Upstream
	events      events.Publisher
	fanoutLimit int
}

func NewCatalogService(catalog, session Upstream, publisher events.Publisher, fanoutLimit int) *CatalogService {
	if fanoutLimit < 1 {
		fanoutLimit = 1
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CatalogService{
		catalog:     catalog,
		session:     session,
		events:      publisher,
		fanoutLimit: fanoutLimit,
	}
}

func (s *CatalogService) get(ctx context.Context, path string, class upstream.Class, out any) error {
	return s.catalog.Do(ctx, upstream.Call{Method: http.MethodGet, Path: path, Class: class}, out)
}

// lookup fetches a single entity into out.
func (s *CatalogService) lookup(ctx context.Context, path string, out any) error {
	raw, err := s.catalog.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: path, Class: upstream.Lookup})
	if err != nil {
		return err
	}
	return decodeObject(path, raw, out)
}

// decodeObject decodes raw into out. Anything but a JSON object, null
// included, is malformed.
func decodeObject(path string, raw []byte, out any) error {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return fmt.Errorf("%s: %w: not a JSON object", path, upstream.ErrMalformed)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %w", path, upstream.ErrMalformed, err)
	}
	return nil
}

// Song resolves the primary song. Any failure, including a null or
// malformed body, is ErrNotFound.
func (s *CatalogService) Song(ctx context.Context, id int) (*oversound.Song, error) {
	var song oversound.Song
	if err := s.lookup(ctx, fmt.Sprintf("/song/%d", id), &song); err != nil {
		return nil, notFound("song", id, err)
	}
	return &song, nil
}

func (s *CatalogService) Album(ctx context.Context, id int) (*oversound.Album, error) {
	var album oversound.Album
	if err := s.lookup(ctx, fmt.Sprintf("/album/%d", id), &album); err != nil {
		return nil, notFound("album", id, err)
	}
	return &album, nil
}

func (s *CatalogService) Merch(ctx context.Context, id int) (*oversound.Merch, error) {
	var merch oversound.Merch
	if err := s.lookup(ctx, fmt.Sprintf("/merch/%d", id), &merch); err != nil {
		return nil, notFound("merch", id, err)
	}
	return &merch, nil
}

func (s *CatalogService) Artist(ctx context.Context, id int) (*oversound.Artist, error) {
	var artist oversound.Artist
	if err := s.lookup(ctx, fmt.Sprintf("/artist/%d", id), &artist); err != nil {
		return nil, notFound("artist", id, err)
	}
	return &artist, nil
}

func (s *CatalogService) Label(ctx context.Context, id int) (*oversound.Label, error) {
	var label oversound.Label
	if err := s.lookup(ctx, fmt.Sprintf("/label/%d", id), &label); err != nil {
		return nil, notFound("label", id, err)
	}
	return &label, nil
}

// Genres returns the global genre list.
func (s *CatalogService) Genres(ctx context.Context) ([]oversound.Genre, error) {
	genres := []oversound.Genre{}
	if err := s.get(ctx, "/genres", upstream.Lookup, &genres); err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []oversound.Genre{}
	}
	return genres, nil
}

func (s *CatalogService) SongList(ctx context.Context, ids []int) ([]oversound.Song, error) {
	return batch[oversound.Song](ctx, s, "song", ids)
}

func (s *CatalogService) AlbumList(ctx context.Context, ids []int) ([]oversound.Album, error) {
	return batch[oversound.Album](ctx, s, "album", ids)
}

func (s *CatalogService) MerchList(ctx context.Context, ids []int) ([]oversound.Merch, error) {
	return batch[oversound.Merch](ctx, s, "merch", ids)
}

func (s *CatalogService) ArtistList(ctx context.Context, ids []int) ([]oversound.Artist, error) {
	return batch[oversound.Artist](ctx, s, "artist", ids)
}

// batch resolves ids in one call to /{kind}/list. No ids means no call.
func batch[T any](ctx context.Context, s *CatalogService, kind string, ids []int) ([]T, error) {
	out := []T{}
	if len(ids) == 0 {
		return out, nil
	}
	call := upstream.Call{
		Method: http.MethodGet,
		Path:   "/" + kind + "/list",
		Query:  url.Values{"ids": {oversound.JoinIDs(ids)}},
		Class:  upstream.Listing,
	}
	if err := s.catalog.Do(ctx, call, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// filterIDs asks the catalog which ids of kind match the query.
func (s *CatalogService) filterIDs(ctx context.Context, kind string, query url.Values) (oversound.IDs, error) {
	ids := oversound.IDs{}
	call := upstream.Call{Method: http.MethodGet, Path: "/" + kind + "/filter", Query: query, Class: upstream.Listing}
	if err := s.catalog.Do(ctx, call, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
