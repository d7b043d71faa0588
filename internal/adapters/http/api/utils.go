package api

import (
	"net/http"
	"strings"
)

// queryOr returns the trimmed query parameter key, or def when it is absent
// or blank.
func queryOr(r *http.Request, key, def string) string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	return v
}
