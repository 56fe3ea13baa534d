package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const GameTokenCookie = "game_token"

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	basePath string
	lifetime time.Duration
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode, nil
	case "LAX":
		return http.SameSiteLaxMode, nil
	case "", "STRICT":
		return http.SameSiteStrictMode, nil
	case "NONE":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("invalid cookies.samesite value %q", s)
}

func NewCookies(c *Config, lifetime time.Duration) (*Cookies, error) {
	sameSite, err := parseSameSite(c.Cookies.SameSite)
	if err != nil {
		return nil, err
	}

	cookies := &Cookies{
		Domain:   c.Cookies.Domain,
		Secure:   c.Cookies.Secure,
		SameSite: sameSite,
		basePath: c.BasePath,
		lifetime: lifetime,
	}

	return cookies, nil
}

// Path scopes a game's cookie to that game's routes.
func (c *Cookies) Path(gameSessionId string) string {
	return c.basePath + "/game/" + gameSessionId
}

func (c *Cookies) Refresh(w http.ResponseWriter, gameSessionId, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     GameTokenCookie,
		Path:     c.Path(gameSessionId),
		Value:    token,
		Expires:  time.Now().Add(c.lifetime),
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Clear(w http.ResponseWriter, gameSessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     GameTokenCookie,
		Path:     c.Path(gameSessionId),
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) GameToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(GameTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
