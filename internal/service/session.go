package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	"github.com/tidwall/gjson"
)

// SessionService talks to the user/session upstream.
type SessionService struct {
	session Upstream
}

func NewSessionService(session Upstream) *SessionService {
	return &SessionService{session: session}
}

// Auth resolves the session behind token. Any failure is ErrUnauthorized.
func (s *SessionService) Auth(ctx context.Context, token string) (*oversound.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	raw, err := s.session.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: "/auth", Token: token})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	var sess oversound.Session
	if err := decodeObject("/auth", raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if sess.UserID <= 0 {
		return nil, fmt.Errorf("%w: no user in session", ErrUnauthorized)
	}
	return &sess, nil
}

// Login forwards credentials and returns the issued session token.
func (s *SessionService) Login(ctx context.Context, body map[string]any) (string, error) {
	return s.issue(ctx, "/login", body)
}

func (s *SessionService) Register(ctx context.Context, body map[string]any) (string, error) {
	return s.issue(ctx, "/register", body)
}

func (s *SessionService) issue(ctx context.Context, path string, body map[string]any) (string, error) {
	raw, err := s.session.DoRaw(ctx, upstream.Call{Method: http.MethodPost, Path: path, Body: body, Class: upstream.Write})
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(raw, "session_token").String()
	if token == "" {
		return "", fmt.Errorf("%s: %w: no session_token", path, upstream.ErrMalformed)
	}
	return token, nil
}

// Logout ends the upstream session and returns its response payload.
func (s *SessionService) Logout(ctx context.Context, token string) (any, error) {
	raw, err := s.session.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: "/logout", Token: token})
	if err != nil {
		return nil, err
	}
	return decodeOptional(raw), nil
}

// User returns the public record of a user. Any failure is ErrNotFound.
func (s *SessionService) User(ctx context.Context, username, token string) (any, error) {
	path := "/user/" + url.PathEscape(username)
	raw, err := s.session.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: path, Token: token})
	if err != nil {
		return nil, notFound("user", username, err)
	}
	var user map[string]any
	if err := decodeObject(path, raw, &user); err != nil {
		return nil, notFound("user", username, err)
	}
	return user, nil
}

// PaymentMethods lists the user's saved payment methods; failure yields an empty list.
func (s *SessionService) PaymentMethods(ctx context.Context, userID int, token string) []any {
	methods := []any{}
	call := upstream.Call{Method: http.MethodGet, Path: fmt.Sprintf("/user/%d/payment-methods", userID), Token: token}
	if err := s.session.Do(ctx, call, &methods); err != nil {
		slog.Warn("Fetching payment methods failed", "userId", userID, "error", err)
		return []any{}
	}
	if methods == nil {
		methods = []any{}
	}
	return methods
}

// Profile is the caller's own profile.
func (s *SessionService) Profile(ctx context.Context, sess *oversound.Session, token string) (*oversound.Profile, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return &oversound.Profile{
		User:           sess,
		IsOwnProfile:   true,
		PaymentMethods: s.PaymentMethods(ctx, sess.UserID, token),
	}, nil
}

// PublicProfile shows another user's profile. Payment methods are only
// included when the caller is looking at their own profile.
func (s *SessionService) PublicProfile(ctx context.Context, username string, sess *oversound.Session, token string) (*oversound.Profile, error) {
	user, err := s.User(ctx, username, token)
	if err != nil {
		return nil, err
	}
	p := &oversound.Profile{User: user, PaymentMethods: []any{}}
	if sess != nil && sess.Username == username {
		p.IsOwnProfile = true
		p.PaymentMethods = s.PaymentMethods(ctx, sess.UserID, token)
	}
	return p, nil
}

// Favorite adds (POST) or removes (DELETE) an item from the user's favorites.
func (s *SessionService) Favorite(ctx context.Context, method, contentType string, id int, token string) (any, error) {
	if !oversound.ValidFavType(contentType) {
		return nil, invalid("type", "must be one of songs, albums, artists")
	}
	call := upstream.Call{Method: method, Path: fmt.Sprintf("/favs/%s/%d", contentType, id), Token: token, Class: upstream.Write}
	raw, err := s.session.DoRaw(ctx, call)
	if err != nil {
		return nil, err
	}
	return decodeOptional(raw), nil
}
