package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"oversound/internal/service"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend fakes every upstream on one server. Routes are "METHOD /path".
type backend struct {
	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	seen   []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.seen = append(b.seen, key)
	body, ok := b.routes[key]
	status := b.status[key]
	b.mu.Unlock()

	if key == "GET /auth" {
		ok, status = true, http.StatusOK
		switch r.Header.Get("Cookie") {
		case oversound.AuthCookie + "=artist":
			body = `{"userId": 1, "username": "ada", "artistId": 7}`
		case oversound.AuthCookie + "=fan":
			body = `{"userId": 2, "username": "bob"}`
		default:
			status = http.StatusUnauthorized
		}
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (b *backend) on(key, body string) { b.reply(key, http.StatusOK, body) }

func (b *backend) reply(key string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = body
	b.status[key] = status
}

func (b *backend) called(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range b.seen {
		if k == key {
			return true
		}
	}
	return false
}

func newGateway(t *testing.T) (*gin.Engine, *backend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &backend{routes: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	timeouts := upstream.Timeouts{Lookup: time.Second, Listing: time.Second, Write: time.Second, Media: time.Second}
	client := func(s upstream.Service) *upstream.Client { return upstream.New(s, srv.URL, timeouts, nil) }

	sessions := service.NewSessionService(client(upstream.Session))
	r := gin.New()
	Register(r, Services{
		Sessions:        sessions,
		Catalog:         service.NewCatalogService(client(upstream.Catalog), client(upstream.Session), nil, 4),
		Commerce:        service.NewCommerceService(client(upstream.Commerce), nil),
		Tracks:          service.NewTrackService(client(upstream.Tracks)),
		Recommendations: service.NewRecommendationService(client(upstream.Recommendations)),
	})
	return r, b
}

func do(r http.Handler, method, path, cookie, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: oversound.AuthCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	r, _ := newGateway(t)
	w := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newGateway(t)
	req := httptest.NewRequest(http.MethodGet, "/user/label", nil)
	req.Header.Set(upstream.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(upstream.RequestIDHeader))

	w = do(r, http.MethodGet, "/user/label", "", "")
	assert.NotEmpty(t, w.Header().Get(upstream.RequestIDHeader))
}

func TestLoginSetsCookie(t *testing.T) {
	r, b := newGateway(t)
	b.on("POST /login", `{"session_token": "tok-1"}`)

	w := do(r, http.MethodPost, "/login", "", `{"username": "ada", "password": "pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, oversound.AuthCookie+"=tok-1")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
	assert.Contains(t, cookie, "Path=/")
}

func TestLoginForwardsUpstreamError(t *testing.T) {
	r, b := newGateway(t)
	b.reply("POST /login", http.StatusUnauthorized, `{"detail": "Invalid credentials"}`)

	w := do(r, http.MethodPost, "/login", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Invalid credentials"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestLogoutClearsCookie(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /logout", `{}`)

	w := do(r, http.MethodPost, "/logout", "fan", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	assert.True(t, b.called("GET /logout"))
}

func TestForgotPasswordRequiresEmail(t *testing.T) {
	r, _ := newGateway(t)

	w := do(r, http.MethodPost, "/forgot-password", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w)["field"])

	w = do(r, http.MethodPost, "/forgot-password", "", `{"email": "a@b.c"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	r, _ := newGateway(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "expired", "").Code)

	w := do(r, http.MethodGet, "/me", "artist", "")
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "ada", me["username"])
	assert.Equal(t, float64(oversound.UserTypeArtist), me["user_type"])
}

func TestGetSong(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /song/42", `{"songId": 42, "artistId": 7, "genres": [1, 3], "price": "2.50"}`)
	b.on("GET /artist/7", `{"artistId": 7, "artisticName": "Ada"}`)
	b.on("GET /genres", `[{"id": 1, "name": "Pop"}, {"id": 2, "name": "Rock"}, {"id": 3, "name": "Jazz"}]`)

	w := do(r, http.MethodGet, "/song/42", "fan", "")
	require.Equal(t, http.StatusOK, w.Code)
	song := decode(t, w)
	assert.Equal(t, 2.5, song["price"])
	assert.Equal(t, float64(oversound.UserTypeUser), song["user_type"])
	assert.Len(t, song["genres_data"], 2)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/song/43", "", "").Code)
	b.on("GET /song/44", `null`)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/song/44", "", "").Code)
	assert.False(t, b.called("GET /artist/0"))
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/song/abc", "", "").Code)
}

func TestDeleteAlbumByNonOwner(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /album/5", `{"albumId": 5, "artistId": 8}`)
	b.on("DELETE /album/5", `{}`)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodDelete, "/album/5", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/album/5", "artist", "").Code)
	assert.False(t, b.called("DELETE /album/5"))
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/album/6", "artist", "").Code)
}

func TestDeleteForwardsUpstreamFailure(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /song/5", `{"songId": 5, "artistId": 7}`)
	b.reply("DELETE /song/5", http.StatusConflict, `{"error": "song is in an album"}`)

	w := do(r, http.MethodDelete, "/song/5", "artist", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error": "song is in an album"}`, w.Body.String())
}

func TestUploadRequiresArtist(t *testing.T) {
	r, b := newGateway(t)
	b.on("POST /merch/upload", `{"merchId": 12}`)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/upload-merch", "", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/upload-merch", "fan", `{}`).Code)

	w := do(r, http.MethodPost, "/upload-merch", "artist", `{"title": "Shirt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decode(t, w)["merchId"])
}

func TestShopMerchFailure(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /genres", `[{"id": 2, "name": "Rock"}]`)
	b.on("GET /artist/filter", `[7]`)
	b.on("GET /artist/list", `[{"artistId": 7, "artisticName": "Ada"}]`)
	b.on("GET /song/filter", `[1]`)
	b.on("GET /song/list", `[{"songId": 1}]`)
	b.on("GET /album/filter", `[]`)
	b.reply("GET /merch/filter", http.StatusInternalServerError, `{}`)

	w := do(r, http.MethodGet, "/shop?genres=Rock&order=date&direction=desc", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	shop := decode(t, w)
	assert.Equal(t, []any{}, shop["merch"])
	assert.Len(t, shop["songs"], 1)
	assert.Len(t, shop["artists"], 1)
	assert.Len(t, shop["genres"], 1)
}

func TestArtistLabelDeprecated(t *testing.T) {
	r, _ := newGateway(t)

	w := do(r, http.MethodGet, "/artist/7/label", "artist", "")
	assert.JSONEq(t, `{"label": null, "is_owner": true}`, w.Body.String())

	w = do(r, http.MethodGet, "/user/label", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(r, http.MethodGet, "/user/label", "fan", "")
	assert.JSONEq(t, `{"has_label": false}`, w.Body.String())
}

func TestFavsValidatesType(t *testing.T) {
	r, b := newGateway(t)
	b.on("DELETE /favs/albums/3", `{"removed": true}`)

	w := do(r, http.MethodPost, "/favs/playlists/3", "fan", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", decode(t, w)["field"])

	w = do(r, http.MethodDelete, "/favs/albums/3", "fan", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed": true}`, w.Body.String())
}

func TestCartRequiresSession(t *testing.T) {
	r, b := newGateway(t)
	b.on("GET /cart", `[]`)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/cart", "", "").Code)
	w := do(r, http.MethodGet, "/cart", "fan", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpstreamUnavailableIsBadGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	timeouts := upstream.Timeouts{Lookup: time.Second, Listing: time.Second, Write: time.Second, Media: time.Second}
	sessions := service.NewSessionService(upstream.New(upstream.Session, dead.URL, timeouts, nil))
	r := gin.New()
	Register(r, Services{Sessions: sessions})

	w := do(r, http.MethodPost, "/login", "", `{}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGiftCard(t *testing.T) {
	r, _ := newGateway(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/giftcard", "", `{}`).Code)

	w := do(r, http.MethodPost, "/giftcard", "fan", `{"amount": 1000, "recipient_email": "a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount", decode(t, w)["field"])

	w = do(r, http.MethodPost, "/giftcard", "fan", `{"amount": "abc", "recipient_email": "a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount", decode(t, w)["field"])

	w = do(r, http.MethodPost, "/giftcard", "fan", `{"amount": 10, "recipient_email": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipient_email", decode(t, w)["field"])

	w = do(r, http.MethodPost, "/giftcard", "fan", `{"amount": "25", "recipient_email": "a@b.c", "message": "hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode(t, w)
	assert.Regexp(t, `^[0-9A-F]{4}(-[0-9A-F]{4}){3}$`, card["code"])
	assert.Equal(t, "a@b.c", card["recipient_email"])
}

func TestTrackStreamingHonoursRange(t *testing.T) {
	r, b := newGateway(t)
	audio := []byte("0123456789")
	b.on("GET /track/9", fmt.Sprintf(`{"idtrack": 9, "track": %q}`, base64.StdEncoding.EncodeToString(audio)))

	w := do(r, http.MethodGet, "/track/9", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, audio, w.Body.Bytes())
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="track_9.mp3"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/track/9", nil)
	req.Header.Set("Range", "bytes=2-4")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "234", w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/track/10", "", "").Code)
}

func TestRecommendationsFallback(t *testing.T) {
	r, _ := newGateway(t)
	w := do(r, http.MethodGet, "/recommendations", "fan", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newGateway(t)
	w := do(r, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserUpstreamFailureIsNotFound(t *testing.T) {
	r, b := newGateway(t)
	b.reply("GET /user/ada", http.StatusInternalServerError, `{"error": "db down"}`)
	b.on("GET /user/bob", `not json`)

	for _, path := range []string{"/user/ada", "/user/bob", "/profile/ada"} {
		w := do(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
