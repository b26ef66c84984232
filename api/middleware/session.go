package middleware

import (
	"net/http"
	"time"

	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/personalize"
	"github.com/demolux/storefront/pkg/logger"
)

// CartSession makes sure every request carries a cart session id, issuing a
// fresh cookie when the browser has none or a malformed one.
func CartSession(ttl time.Duration, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(cart.SessionCookie); err == nil && cart.ValidSessionID(cookie.Value) {
				sessionID = cookie.Value
			} else {
				sessionID = cart.NewSessionID()
				http.SetCookie(w, sessionCookie(sessionID, ttl, secure))
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionCookie(sessionID string, ttl time.Duration, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     cart.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl / time.Second)
		c.Expires = time.Now().Add(ttl)
	}
	return c
}

// Variants exposes the aliases of the variants cookie to downstream handlers.
func Variants() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			aliases := personalize.ReadVariants(r)
			if len(aliases) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(personalize.WithVariants(r.Context(), aliases)))
		})
	}
}
