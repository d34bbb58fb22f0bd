package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"surat-portal/config"
	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// AuthHandler session endpoints.
type AuthHandler struct {
	authSvc service.AuthService
	cookie  config.CookieConfig
	ttl     time.Duration
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, cookie config.CookieConfig, ttl time.Duration) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie, ttl: ttl}
}

// Login signs in and sets the session cookie.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, 11001, "Email atau kata sandi salah")
			return
		}
		response.InternalError(c)
		return
	}

	h.setCookie(c, result.Token, int(h.ttl.Seconds()))
	response.OK(c, result)
}

// Logout revokes the current token and clears the cookie.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	expiresAt, _ := c.Get("token_expires_at")
	exp, _ := expiresAt.(time.Time)

	if err := h.authSvc.Logout(c.Request.Context(), c.GetString("token_id"), exp); err != nil {
		response.InternalError(c)
		return
	}

	h.setCookie(c, "", -1)
	response.OK(c, nil)
}

// Me returns the session user.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			response.Unauthorized(c, 10002, "Sesi tidak valid")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, me)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
