// Package hook provides explicit registration of named interceptors at the
// host store's lifecycle points. The host save path runs pre-persist
// interceptors on every update; the structured API surface runs per-type
// pre-insert interceptors against the request's meta bag before the generic
// meta-save step.
package hook

import (
	"net/url"

	"github.com/hpungsan/modlock/internal/item"
)

// PrePersistFunc adjusts an about-to-be-persisted item. It receives the
// incoming record after all other field processing, the record's ID, and the
// raw form submission (nil outside the interactive surface). The returned
// item replaces the data to be written.
type PrePersistFunc func(incoming *item.Item, itemID string, form url.Values) *item.Item

// PreInsertFunc adjusts a prepared record on the structured API surface.
// Mutations to the request's meta bag are observed by the caller's subsequent
// generic meta-save step.
type PreInsertFunc func(prepared *item.Item, meta map[string]string) *item.Item

type namedPrePersist struct {
	name string
	fn   PrePersistFunc
}

type namedPreInsert struct {
	name string
	fn   PreInsertFunc
}

// Registry holds the interceptors bound to a single host instance.
// Registration happens during wiring; invocation is request-scoped and
// read-only, so no locking is needed.
type Registry struct {
	prePersist []namedPrePersist
	preInsert  map[string][]namedPreInsert
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		preInsert: make(map[string][]namedPreInsert),
	}
}

// OnPrePersist registers a named pre-persist interceptor. Re-registering the
// same name replaces the previous function, keeping binding idempotent.
func (r *Registry) OnPrePersist(name string, fn PrePersistFunc) {
	for i, entry := range r.prePersist {
		if entry.name == name {
			r.prePersist[i].fn = fn
			return
		}
	}
	r.prePersist = append(r.prePersist, namedPrePersist{name: name, fn: fn})
}

// OnPreInsert registers a named pre-insert interceptor for one content type.
// Re-registering the same (type, name) pair replaces the previous function.
func (r *Registry) OnPreInsert(itemType, name string, fn PreInsertFunc) {
	entries := r.preInsert[itemType]
	for i, entry := range entries {
		if entry.name == name {
			entries[i].fn = fn
			return
		}
	}
	r.preInsert[itemType] = append(entries, namedPreInsert{name: name, fn: fn})
}

// ApplyPrePersist runs every pre-persist interceptor in registration order.
func (r *Registry) ApplyPrePersist(incoming *item.Item, itemID string, form url.Values) *item.Item {
	for _, entry := range r.prePersist {
		incoming = entry.fn(incoming, itemID, form)
	}
	return incoming
}

// ApplyPreInsert runs the pre-insert interceptors registered for itemType.
func (r *Registry) ApplyPreInsert(itemType string, prepared *item.Item, meta map[string]string) *item.Item {
	for _, entry := range r.preInsert[itemType] {
		prepared = entry.fn(prepared, meta)
	}
	return prepared
}
