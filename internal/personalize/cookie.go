package personalize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// VariantsCookie carries the active variant aliases as a JSON array.
	VariantsCookie = "cs_personalize_variants"
	VariantsMaxAge = 24 * time.Hour
)

// ParseVariants decodes a cookie value. Anything that is not a JSON array of
// strings yields nil.
func ParseVariants(value string) []string {
	if value == "" {
		return nil
	}
	if unescaped, err := url.QueryUnescape(value); err == nil {
		value = unescaped
	}
	var aliases []string
	if err := json.Unmarshal([]byte(value), &aliases); err != nil {
		return nil
	}
	out := aliases[:0]
	for _, alias := range aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			out = append(out, alias)
		}
	}
	return out
}

// ReadVariants returns the aliases stored in the request's variants cookie.
func ReadVariants(r *http.Request) []string {
	cookie, err := r.Cookie(VariantsCookie)
	if err != nil {
		return nil
	}
	return ParseVariants(cookie.Value)
}

// VariantsCookieFor builds the cookie storing aliases for 24 hours.
func VariantsCookieFor(aliases []string, secure bool, now time.Time) *http.Cookie {
	if aliases == nil {
		aliases = []string{}
	}
	raw, _ := json.Marshal(aliases)
	return &http.Cookie{
		Name:     VariantsCookie,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		Expires:  now.Add(VariantsMaxAge),
		MaxAge:   int(VariantsMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// WriteVariants sets the variants cookie on w.
func WriteVariants(w http.ResponseWriter, aliases []string, secure bool) {
	http.SetCookie(w, VariantsCookieFor(aliases, secure, time.Now()))
}

type variantsKey struct{}

// WithVariants stores aliases on ctx.
func WithVariants(ctx context.Context, aliases []string) context.Context {
	return context.WithValue(ctx, variantsKey{}, aliases)
}

// VariantsFromContext returns the aliases stored by WithVariants.
func VariantsFromContext(ctx context.Context) []string {
	aliases, _ := ctx.Value(variantsKey{}).([]string)
	return aliases
}
