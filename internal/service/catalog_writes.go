package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"oversound/internal/events"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ownerOf returns the artist id that owns a song, album or merch item.
func (s *CatalogService) ownerOf(ctx context.Context, kind oversound.Kind, id int) (int, error) {
	switch kind {
	case oversound.KindSong:
		song, err := s.Song(ctx, id)
		if err != nil {
			return 0, err
		}
		return song.ArtistID, nil
	case oversound.KindAlbum:
		album, err := s.Album(ctx, id)
		if err != nil {
			return 0, err
		}
		return album.ArtistID, nil
	case oversound.KindMerch:
		merch, err := s.Merch(ctx, id)
		if err != nil {
			return 0, err
		}
		return merch.ArtistID, nil
	}
	return 0, fmt.Errorf("%w: kind %q has no owner", ErrValidation, kind)
}

// authorizeOwner loads the entity and checks the session's artist owns it.
func (s *CatalogService) authorizeOwner(ctx context.Context, kind oversound.Kind, id int, sess *oversound.Session) error {
	if sess == nil {
		return ErrUnauthorized
	}
	owner, err := s.ownerOf(ctx, kind, id)
	if err != nil {
		return err
	}
	return CheckOwnership(sess, owner)
}

// Delete removes a song, album or merch item owned by the session's artist.
// Nothing is sent upstream unless the ownership check passes.
func (s *CatalogService) Delete(ctx context.Context, kind oversound.Kind, id int, sess *oversound.Session, token string) error {
	if err := s.authorizeOwner(ctx, kind, id, sess); err != nil {
		return err
	}
	call := upstream.Call{Method: http.MethodDelete, Path: fmt.Sprintf("/%s/%d", kind, id), Token: token, Class: upstream.Write}
	if err := s.catalog.Do(ctx, call, nil); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	slog.Info("Deleted catalog entity", "kind", kind, "id", id, "userId", sess.UserID)
	events.Emit(ctx, s.events, events.New(events.TypeDeleted, string(kind), id, sess.UserID))
	return nil
}

// Update forwards body to PUT /{kind}/{id} after the ownership check and
// returns the upstream's response payload, if any.
func (s *CatalogService) Update(ctx context.Context, kind oversound.Kind, id int, body map[string]any, sess *oversound.Session, token string) (any, error) {
	if err := s.authorizeOwner(ctx, kind, id, sess); err != nil {
		return nil, err
	}
	// The owner cannot be reassigned through an update.
	body["artistId"] = sess.ArtistID.Int
	call := upstream.Call{Method: http.MethodPut, Path: fmt.Sprintf("/%s/%d", kind, id), Body: body, Token: token, Class: upstream.Write}
	raw, err := s.catalog.DoRaw(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	events.Emit(ctx, s.events, events.New(events.TypeUpdated, string(kind), id, sess.UserID))
	return decodeOptional(raw), nil
}

// Upload creates a song, album or merch item for the session's artist and
// returns the new id.
func (s *CatalogService) Upload(ctx context.Context, kind oversound.Kind, body map[string]any, sess *oversound.Session, token string) (int, error) {
	if sess == nil {
		return 0, ErrUnauthorized
	}
	if !sess.IsArtist() {
		return 0, fmt.Errorf("%w: only artists can upload", ErrForbidden)
	}
	body["artistId"] = sess.ArtistID.Int

	call := upstream.Call{Method: http.MethodPost, Path: fmt.Sprintf("/%s/upload", kind), Body: body, Token: token, Class: upstream.Write}
	raw, err := s.catalog.DoRaw(ctx, call)
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", kind, err)
	}
	id := int(gjson.GetBytes(raw, kind.IDField()).Int())
	slog.Info("Uploaded catalog entity", "kind", kind, "id", id, "artistId", sess.ArtistID.Int)
	events.Emit(ctx, s.events, events.New(events.TypeUploaded, string(kind), id, sess.UserID))
	return id, nil
}

// CreateArtist creates an artist profile for the session's user and links it
// to the user account. A failed link is logged; the artist already exists.
func (s *CatalogService) CreateArtist(ctx context.Context, body map[string]any, sess *oversound.Session, token string) (int, error) {
	if sess == nil {
		return 0, ErrUnauthorized
	}
	if sess.IsArtist() {
		return 0, invalid("artistId", "user already has an artist profile")
	}
	body["userId"] = sess.UserID

	call := upstream.Call{Method: http.MethodPost, Path: "/artist/upload", Body: body, Token: token, Class: upstream.Write}
	raw, err := s.catalog.DoRaw(ctx, call)
	if err != nil {
		return 0, fmt.Errorf("create artist: %w", err)
	}
	artistID := int(gjson.GetBytes(raw, "artistId").Int())

	link := upstream.Call{
		Method: http.MethodPatch,
		Path:   "/user/" + sess.Username,
		Body:   map[string]any{"relatedArtist": artistID},
		Token:  token,
		Class:  upstream.Write,
	}
	if err := s.session.Do(ctx, link, nil); err != nil {
		slog.Warn("Linking artist to user failed", "username", sess.Username, "artistId", artistID, "error", err)
	}

	events.Emit(ctx, s.events, events.New(events.TypeArtistCreated, string(oversound.KindArtist), artistID, sess.UserID))
	return artistID, nil
}

// CreateLabel creates a label owned by the session's user and returns its id.
func (s *CatalogService) CreateLabel(ctx context.Context, body map[string]any, sess *oversound.Session, token string) (int, error) {
	if sess == nil {
		return 0, ErrUnauthorized
	}
	body["ownerId"] = sess.UserID
	raw, err := s.catalog.DoRaw(ctx, upstream.Call{Method: http.MethodPost, Path: "/label", Body: body, Token: token, Class: upstream.Write})
	if err != nil {
		return 0, fmt.Errorf("create label: %w", err)
	}
	return int(gjson.GetBytes(raw, "id").Int()), nil
}

// authorizeLabelOwner checks the session's user owns the label.
func (s *CatalogService) authorizeLabelOwner(ctx context.Context, id int, sess *oversound.Session) error {
	if sess == nil {
		return ErrUnauthorized
	}
	label, err := s.Label(ctx, id)
	if err != nil {
		return err
	}
	if label.OwnerID != sess.UserID {
		return ErrForbidden
	}
	return nil
}

func (s *CatalogService) UpdateLabel(ctx context.Context, id int, body map[string]any, sess *oversound.Session, token string) error {
	if err := s.authorizeLabelOwner(ctx, id, sess); err != nil {
		return err
	}
	call := upstream.Call{Method: http.MethodPut, Path: fmt.Sprintf("/label/%d", id), Body: body, Token: token, Class: upstream.Write}
	if err := s.catalog.Do(ctx, call, nil); err != nil {
		return fmt.Errorf("update label %d: %w", id, err)
	}
	return nil
}

func (s *CatalogService) DeleteLabel(ctx context.Context, id int, sess *oversound.Session, token string) error {
	if err := s.authorizeLabelOwner(ctx, id, sess); err != nil {
		return err
	}
	call := upstream.Call{Method: http.MethodDelete, Path: fmt.Sprintf("/label/%d", id), Token: token, Class: upstream.Write}
	if err := s.catalog.Do(ctx, call, nil); err != nil {
		return fmt.Errorf("delete label %d: %w", id, err)
	}
	events.Emit(ctx, s.events, events.New(events.TypeDeleted, string(oversound.KindLabel), id, sess.UserID))
	return nil
}

// JoinLabel adds the session's artist to a label; LeaveLabel removes it.
func (s *CatalogService) JoinLabel(ctx context.Context, id int, sess *oversound.Session, token string) error {
	return s.labelMembership(ctx, http.MethodPost, id, sess, token)
}

func (s *CatalogService) LeaveLabel(ctx context.Context, id int, sess *oversound.Session, token string) error {
	return s.labelMembership(ctx, http.MethodDelete, id, sess, token)
}

func (s *CatalogService) labelMembership(ctx context.Context, method string, id int, sess *oversound.Session, token string) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if !sess.IsArtist() {
		return fmt.Errorf("%w: only artists can join labels", ErrForbidden)
	}
	call := upstream.Call{Method: method, Path: fmt.Sprintf("/label/%d/artist/%d", id, sess.ArtistID.Int), Token: token, Class: upstream.Write}
	if err := s.catalog.Do(ctx, call, nil); err != nil {
		return fmt.Errorf("label %d membership: %w", id, err)
	}
	return nil
}

// RemoveLabelArtist lets the label owner remove an artist.
func (s *CatalogService) RemoveLabelArtist(ctx context.Context, id, artistID int, sess *oversound.Session, token string) error {
	if err := s.authorizeLabelOwner(ctx, id, sess); err != nil {
		return err
	}
	call := upstream.Call{Method: http.MethodDelete, Path: fmt.Sprintf("/label/%d/artist/%d", id, artistID), Token: token, Class: upstream.Write}
	if err := s.catalog.Do(ctx, call, nil); err != nil {
		return fmt.Errorf("remove artist %d from label %d: %w", artistID, id, err)
	}
	return nil
}

// decodeOptional returns the decoded JSON payload, or nil for an empty or
// non-JSON body.
func decodeOptional(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
