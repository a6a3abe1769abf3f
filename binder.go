package dune

import (
	"net/http"

	"github.com/vitalvas/dune/router"
	"github.com/vitalvas/dune/schema"
)

// bindInputs validates every declared input binding of the route before
// the handler runs. Failures from all bindings are collected and
// reported together in one 400 response; the handler never observes
// partially valid data. Returns false when dispatch must stop.
func (a *API) bindInputs(req *Request, resp *Response, route *router.Route) bool {
	var errs []schema.FieldError

	for _, binding := range route.Inputs() {
		// GET and HEAD carry no body; a body binding on a multi-verb
		// route must not reject them.
		if binding.Location == router.LocationBody &&
			(req.Method == http.MethodGet || req.Method == http.MethodHead) {
			continue
		}

		raw, err := extractLocation(req, binding.Location)
		if err != nil {
			resp.StatusCode = http.StatusBadRequest
			resp.Media = map[string]any{"error": err.Error()}
			return false
		}

		validated, fieldErrs := binding.Schema.Validate(raw)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		req.setValidated(binding.Location, validated)
	}

	if len(errs) > 0 {
		byField := make(map[string][]string, len(errs))
		for _, e := range errs {
			byField[e.Field] = append(byField[e.Field], e.Message)
		}
		resp.StatusCode = http.StatusBadRequest
		resp.Media = map[string]any{"errors": byField}
		return false
	}
	return true
}

// extractLocation pulls the raw data for one binding location off the
// request: the decoded body, last-wins query values, canonical-keyed
// headers, or cookies.
func extractLocation(req *Request, loc router.Location) (map[string]any, error) {
	switch loc {
	case router.LocationBody:
		decoded, err := req.Media()
		if err != nil {
			return nil, err
		}
		return decoded.Map(), nil

	case router.LocationQuery:
		params := req.Params()
		out := make(map[string]any, len(params))
		for key, value := range params {
			out[key] = value
		}
		return out, nil

	case router.LocationHeaders:
		out := make(map[string]any, len(req.Header))
		for key, values := range req.Header {
			if len(values) > 0 {
				out[key] = values[0]
			}
		}
		return out, nil

	case router.LocationCookies:
		cookies := req.CookieValues()
		out := make(map[string]any, len(cookies))
		for name, value := range cookies {
			out[name] = value
		}
		return out, nil
	}
	return map[string]any{}, nil
}
