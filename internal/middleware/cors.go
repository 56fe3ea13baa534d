package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets any origin through in development. Otherwise only the listed
// origins are allowed.
func Cors(development bool, allowedOrigins ...string) Middleware {
	options := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	switch {
	case development:
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	case len(allowedOrigins) == 0:
		options.AllowOriginFunc = func(origin string) bool {
			return false
		}
	}
	return cors.New(options).Handler
}
