package handlers

import (
	"errors"
	"gestionale_veicoli_go/config"
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/middleware"
	"gestionale_veicoli_go/services"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler authenticates a user and opens a session
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Richiesta non valida"})
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username e password sono obbligatori"})
	}

	user, err := services.AuthenticateUser(db.DB, username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Credenziali non valide"})
		}
		return respondServiceError(c, err)
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondServiceError(c, err)
	}

	cfg := c.Get("config").(*config.Config)
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	now := time.Now()
	db.DB.Model(user).Update("last_login_at", now)

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler closes the session and clears the cookie
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		services.DeleteSession(db.DB, cookie.Value)
	}

	cfg := c.Get("config").(*config.Config)
	clearCookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(clearCookie)

	return c.NoContent(http.StatusNoContent)
}

// GetCurrentUserHandler returns the authenticated user as JSON
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Non autenticato")
	}
	return c.JSON(http.StatusOK, user)
}
