package controllers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/demolux/storefront/internal/ui"
)

const scriptMaxAge = time.Hour

var scriptModTime = time.Now()

// StorefrontScript serves the embedded client behaviour for accordions,
// carousels and count-up metrics.
func StorefrontScript() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(scriptMaxAge.Seconds())))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, "storefront.js", scriptModTime, bytes.NewReader(ui.Script))
	}
}
