package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows the listed origins with credentials. With no origins every
// origin is allowed and credentials are not.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", DevActorHeader}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	}
	if len(origins) == 0 {
		opts = append(opts, handlers.AllowedOrigins([]string{"*"}))
	} else {
		opts = append(opts, handlers.AllowedOrigins(origins), handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}
