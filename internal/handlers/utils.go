package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"oversound/internal/service"
	"oversound/internal/upstream"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionKey = "oversound.session"
	tokenKey   = "oversound.token"
)

// Authenticator resolves a session token.
type Authenticator interface {
	Auth(ctx context.Context, token string) (*oversound.Session, error)
}

// RequestID tags every request with an X-Request-ID, reusing the caller's
// when present, and carries it to upstream calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(upstream.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(upstream.RequestIDHeader, id)
		c.Request = c.Request.WithContext(upstream.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// LoadSession resolves the session cookie once per request. A missing or
// rejected cookie leaves the request anonymous.
func LoadSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(oversound.AuthCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		c.Set(tokenKey, token)
		sess, err := auth.Auth(c.Request.Context(), token)
		if err != nil {
			slog.Debug("Session cookie rejected", "error", err)
			c.Next()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// currentSession returns the caller's session or nil.
func currentSession(c *gin.Context) *oversound.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*oversound.Session); ok {
			return sess
		}
	}
	return nil
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// requireSession answers 401 when the caller is anonymous.
func requireSession(c *gin.Context) (*oversound.Session, bool) {
	sess := currentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return sess, true
}

// paramID parses a numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// bindObject reads a JSON object body. An empty body is an empty object.
func bindObject(c *gin.Context) (map[string]any, bool) {
	body := map[string]any{}
	if c.Request.ContentLength == 0 {
		return body, true
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

// respondError maps service and upstream errors to a JSON error response.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ue, ok := upstream.AsError(err); ok {
		status, msg := http.StatusBadGateway, "upstream service unavailable"
		switch ue.Kind {
		case upstream.KindNotFound:
			status, msg = http.StatusNotFound, "not found"
		case upstream.KindStatus:
			status, msg = ue.Status, http.StatusText(ue.Status)
		case upstream.KindMalformed:
			msg = "invalid upstream response"
		}
		if ue.Message != "" {
			msg = ue.Message
		}
		slog.Warn("Upstream error", "service", ue.Service, "path", ue.Path, "status", status, "error", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// respondPayload writes an upstream payload, or a bare confirmation when the
// upstream returned nothing.
func respondPayload(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.JSON(status, gin.H{"message": "ok"})
		return
	}
	c.JSON(status, payload)
}
