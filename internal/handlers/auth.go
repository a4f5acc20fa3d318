package handlers

import (
	"log/slog"
	"net/http"

	"oversound/internal/service"
	"oversound/pkg/oversound"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions     *service.SessionService
	secureCookie bool
}

func NewAuthHandler(sessions *service.SessionService, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, secureCookie: secureCookie}
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oversound.AuthCookie, value, maxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) Login(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	token, err := h.sessions.Login(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, token, 0)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	token, err := h.sessions.Register(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, token, 0)
	c.JSON(http.StatusOK, gin.H{"message": "Registration successful"})
}

// Logout clears the cookie even when the upstream logout fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if _, err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			slog.Warn("Upstream logout failed", "error", err)
		}
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword only confirms the request; no mail is sent from here.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required", "field": "email"})
		return
	}
	slog.Info("Password reset requested", "email", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

type meResponse struct {
	*oversound.Session
	UserType oversound.UserType `json:"user_type"`
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, meResponse{Session: sess, UserType: service.ClassifyUser(sess)})
}
