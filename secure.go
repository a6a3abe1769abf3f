package dune

import "net/http"

const hstsHeaderValue = "max-age=63072000; includeSubDomains; preload"

// applySecure sets the security and CORS headers on every response and
// short-circuits CORS preflight requests. It reports whether dispatch
// should continue.
func (a *API) applySecure(w http.ResponseWriter, r *http.Request) bool {
	if a.cfg.EnableHSTS {
		w.Header().Set("Strict-Transport-Security", hstsHeaderValue)
	}

	if !a.cfg.CORS {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Add("Vary", "Origin")

	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		w.Header().Set("Access-Control-Allow-Methods", r.Header.Get("Access-Control-Request-Method"))
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			w.Header().Set("Access-Control-Allow-Headers", requested)
		}
		w.WriteHeader(http.StatusNoContent)
		return false
	}

	return true
}
