package dune

import (
	"net/http"

	"github.com/vitalvas/dune/router"
)

// Resource is a handler group: a bundle of per-verb handlers dispatched
// by the incoming method, with an optional Any fallback for verbs
// without a dedicated handler. The dedicated handler always wins over
// the fallback. A resource with no handlers at all matches no verb and
// its routes answer 405.
//
// The verb set is resolved once, at registration; dispatch is a plain
// map lookup.
type Resource struct {
	name     string
	verbs    map[string]HandlerFunc
	fallback HandlerFunc
}

// NewResource starts a handler group with the given endpoint identity.
func NewResource(name string) *Resource {
	return &Resource{name: name, verbs: make(map[string]HandlerFunc)}
}

// Get sets the GET handler.
func (r *Resource) Get(h HandlerFunc) *Resource { return r.on(http.MethodGet, h) }

// Post sets the POST handler.
func (r *Resource) Post(h HandlerFunc) *Resource { return r.on(http.MethodPost, h) }

// Put sets the PUT handler.
func (r *Resource) Put(h HandlerFunc) *Resource { return r.on(http.MethodPut, h) }

// Patch sets the PATCH handler.
func (r *Resource) Patch(h HandlerFunc) *Resource { return r.on(http.MethodPatch, h) }

// Delete sets the DELETE handler.
func (r *Resource) Delete(h HandlerFunc) *Resource { return r.on(http.MethodDelete, h) }

// Head sets the HEAD handler.
func (r *Resource) Head(h HandlerFunc) *Resource { return r.on(http.MethodHead, h) }

// Options sets the OPTIONS handler.
func (r *Resource) Options(h HandlerFunc) *Resource { return r.on(http.MethodOptions, h) }

// Any sets the fallback handler for verbs without a dedicated one. The
// fallback accepts whatever is sent but advertises no verb in the Allow
// header.
func (r *Resource) Any(h HandlerFunc) *Resource {
	r.fallback = h
	return r
}

func (r *Resource) on(verb string, h HandlerFunc) *Resource {
	r.verbs[verb] = h
	return r
}

func (r *Resource) endpoint() router.Endpoint {
	verbs := make(map[string]any, len(r.verbs))
	for verb, h := range r.verbs {
		verbs[verb] = h
	}
	var fallback any
	if r.fallback != nil {
		fallback = r.fallback
	}
	return router.HandlerGroup(r.name, verbs, fallback)
}
