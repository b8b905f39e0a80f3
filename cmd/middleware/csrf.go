package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
)

// CSRF guards the console's own HTML forms. Unsafe requests without a valid
// token are answered with 403 and never reach the handler.
func CSRF(key []byte, secure bool, log *zerolog.Logger) gin.HandlerFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn().Err(csrf.FailureReason(r)).Str("path", r.URL.Path).Msg("csrf check failed")
			http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
		})),
	)

	return func(c *ginext.Context) {
		passed := false
		h := protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		}))

		r := c.Request
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		h.ServeHTTP(c.Writer, r)
		if !passed {
			c.Abort()
		}
	}
}
