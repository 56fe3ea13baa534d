package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxGameClaims CtxKey = iota
)

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth admits requests carrying a token for the game session named by the
// {id} route variable, taken from the Authorization header or the game cookie.
func Auth(log *logrus.Logger, j *config.JWT, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				var err error
				if token, err = cookies.GameToken(r); err != nil {
					sendError(w, http.StatusUnauthorized, "missing game token")
					return
				}
			}

			claims, err := j.ParseGameClaims(token)
			if err != nil {
				log.WithError(err).Debug("rejected game token")
				sendError(w, http.StatusUnauthorized, "invalid game token")
				return
			}
			if claims.GameSessionId != mux.Vars(r)["id"] {
				sendError(w, http.StatusUnauthorized, "token belongs to another game")
				return
			}

			ctx := context.WithValue(r.Context(), CtxGameClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GameClaims(ctx context.Context) (*config.GameClaims, bool) {
	claims, ok := ctx.Value(CtxGameClaims).(*config.GameClaims)
	return claims, ok
}
