// Package freeze implements the modified-date override interceptor: a per-item
// opt-out from automatic "last modified" timestamp updates. The core decision
// is pure given (record, flag, cache); thin adapters bind it to the host's
// pre-persist and API pre-insert hook points.
package freeze

import (
	"net/url"
	"strconv"
	"time"

	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/item"
)

// Meta keys owned by this component. Both live in the host's per-item
// metadata store and are the component's entire persistent state.
const (
	// MetaKeyFlag is the freeze flag, stored "0"/"1"; absent means false.
	MetaKeyFlag = "freeze_modified"

	// MetaKeyCache holds the modification timestamp to reuse while the flag
	// is set, in canonical ISO-8601 (RFC 3339, UTC).
	MetaKeyCache = "freeze_modified_cache"
)

// Form fields read from interactive submissions.
const (
	FormFieldFlag        = "freeze_modified"
	FormFieldNonce       = "freeze_modified_nonce"
	FormFieldAutosave    = "autosave"
	FormFieldModified    = "modified_at"
	FormFieldModifiedUTC = "modified_at_utc"
)

// HookName identifies this component's interceptors in the hook registry.
const HookName = "freeze_modified"

// NonceAction returns the token action string for an item's freeze toggle.
func NonceAction(itemID string) string {
	return "freeze_modified:" + itemID
}

// MetaStore is the host's per-item key-value metadata store.
type MetaStore interface {
	GetMeta(itemID, key string) (string, error)
	SetMeta(itemID, key, value string) error
	DeleteMeta(itemID, key string) error
}

// TypeResolver reports the content type of a stored item.
type TypeResolver interface {
	ItemType(itemID string) (string, error)
}

// Authorizer is the host's edit-permission check.
type Authorizer interface {
	CanEdit(user, itemID string) bool
}

// TokenVerifier validates form tokens on the interactive surface.
type TokenVerifier interface {
	Verify(token, action string) bool
}

// Options configures an Interceptor. Zero values get documented defaults.
type Options struct {
	// ForceUpdate is the shouldForceTimestampUpdate extension point: a truthy
	// result makes the incoming timestamp win regardless of the stored flag,
	// while still refreshing the cache. nil result (or nil func) means no
	// opinion. Default: nil func.
	ForceUpdate func(itemID string) *bool

	// SupportedTypes is the supportedContentTypes extension point.
	// Default: {"post"}.
	SupportedTypes func() []string

	// Location is the site timezone for the local modified_at column.
	// Default: UTC.
	Location *time.Location

	// Auth gates interactive saves. nil denies every interactive save.
	Auth Authorizer

	// Tokens validates interactive form tokens. nil rejects every token.
	Tokens TokenVerifier
}

// Interceptor is the modified-date override component, constructed once per
// process and bound to the host's hook points via BindSave/BindAPI.
type Interceptor struct {
	meta  MetaStore
	types TypeResolver
	opts  Options
}

// New creates an Interceptor over the given collaborators.
func New(meta MetaStore, types TypeResolver, opts Options) *Interceptor {
	if opts.SupportedTypes == nil {
		opts.SupportedTypes = func() []string { return []string{item.DefaultType} }
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Interceptor{meta: meta, types: types, opts: opts}
}

// SupportsType reports whether the freeze applies to the given content type.
func (ic *Interceptor) SupportsType(itemType string) bool {
	for _, t := range ic.opts.SupportedTypes() {
		if t == itemType {
			return true
		}
	}
	return false
}

// supportsItem resolves an item's type and gates on it. A failed resolution
// falls back to the incoming record's own type when available.
func (ic *Interceptor) supportsItem(itemID, fallbackType string) bool {
	t, err := ic.types.ItemType(itemID)
	if err != nil || t == "" {
		t = fallbackType
	}
	return ic.SupportsType(t)
}

// BeforePersist is the pre-persist hook body. It runs synchronously on the
// host's save path after all other field processing and decides whether the
// incoming modification timestamp is replaced with the cached one. It never
// fails the save: missing or malformed flag/cache state means "do not
// override" and the host's timestamps win.
//
// form is the raw interactive submission; nil on non-form surfaces.
func (ic *Interceptor) BeforePersist(incoming *item.Item, itemID string, form url.Values) *item.Item {
	if incoming == nil {
		return incoming
	}
	if !ic.supportsItem(itemID, incoming.Type) {
		return incoming
	}

	// Forced update wins over the stored flag. The cache still follows the
	// timestamp that actually lands, so the next freeze reuses it.
	if ic.opts.ForceUpdate != nil {
		if force := ic.opts.ForceUpdate(itemID); force != nil && *force {
			ic.refreshCache(itemID, incoming.ModifiedAt)
			return incoming
		}
	}

	// Frozen: substitute the cached timestamp, recomputing the UTC pair
	// from the single cached instant.
	flag, _ := ic.meta.GetMeta(itemID, MetaKeyFlag)
	cached, _ := ic.meta.GetMeta(itemID, MetaKeyCache)
	if truthyMeta(flag) && cached != "" {
		if t, err := item.ParseCanonical(cached); err == nil {
			incoming.ModifiedAt, incoming.ModifiedAtUTC = item.StampPair(t, ic.opts.Location)
			return incoming
		}
	}

	// First frozen save from the interactive form: the stored flag isn't set
	// yet (it lands after persist), so honor the transient form flag by
	// passing through the explicit values the form carried.
	if form != nil && form.Get(FormFieldFlag) == "1" {
		if v := form.Get(FormFieldModified); v != "" {
			incoming.ModifiedAt = v
		}
		if v := form.Get(FormFieldModifiedUTC); v != "" {
			incoming.ModifiedAtUTC = v
		}
		return incoming
	}

	// The timestamp is allowed to update: keep the cache pointing at the most
	// recent timestamp that was actually written, so a later freeze reuses it.
	ic.refreshCache(itemID, incoming.ModifiedAt)
	return incoming
}

// refreshCache stores the native local timestamp in canonical form.
// Unparseable input leaves the cache untouched.
func (ic *Interceptor) refreshCache(itemID, nativeLocal string) {
	t, err := item.ParseNative(nativeLocal, ic.opts.Location)
	if err != nil {
		return
	}
	_ = ic.meta.SetMeta(itemID, MetaKeyCache, item.FormatCanonical(t))
}

// InteractiveSave handles a form save for one item. Token and authorization
// failures, autosaves, and unsupported types all short-circuit with no state
// change. The flag transitions are:
//
//	field absent        → flag deleted (editing would have invalidated any
//	                      cached value anyway)
//	field parses as 1   → flag set
//	anything else       → no change (deliberately not "set false")
func (ic *Interceptor) InteractiveSave(user, itemID string, form url.Values) {
	t, err := ic.types.ItemType(itemID)
	if err != nil || !ic.SupportsType(t) {
		return
	}

	if ic.opts.Tokens == nil || !ic.opts.Tokens.Verify(form.Get(FormFieldNonce), NonceAction(itemID)) {
		return
	}
	if ic.opts.Auth == nil || !ic.opts.Auth.CanEdit(user, itemID) {
		return
	}
	if form.Get(FormFieldAutosave) == "1" {
		return
	}

	if !form.Has(FormFieldFlag) {
		_ = ic.meta.DeleteMeta(itemID, MetaKeyFlag)
		return
	}

	if v, err := strconv.Atoi(form.Get(FormFieldFlag)); err == nil && v == 1 {
		_ = ic.meta.SetMeta(itemID, MetaKeyFlag, "1")
	}
}

// Status reports the stored flag and cached timestamp for an item.
func (ic *Interceptor) Status(itemID string) (frozen bool, cachedAt string) {
	flag, _ := ic.meta.GetMeta(itemID, MetaKeyFlag)
	cached, _ := ic.meta.GetMeta(itemID, MetaKeyCache)
	return truthyMeta(flag), cached
}

// BindSave installs the pre-persist interceptor on the host save path.
// Safe to call repeatedly; re-binding replaces the previous registration.
func (ic *Interceptor) BindSave(reg *hook.Registry) {
	reg.OnPrePersist(HookName, ic.BeforePersist)
}

// BindAPI installs a pre-insert interceptor on the structured API surface for
// each given content type. The interceptor extracts this component's meta
// keys from the request's meta bag, persists them immediately, and strips
// them from the bag so the generic meta-save step does not process them
// again. The meta must land before BeforePersist runs, since that step reads
// the metadata store.
func (ic *Interceptor) BindAPI(reg *hook.Registry, types []string) {
	for _, t := range types {
		reg.OnPreInsert(t, HookName, ic.preInsert)
	}
}

// preInsert is the per-type API pre-insert hook body.
func (ic *Interceptor) preInsert(prepared *item.Item, meta map[string]string) *item.Item {
	if prepared == nil || meta == nil {
		return prepared
	}
	for _, key := range []string{MetaKeyFlag, MetaKeyCache} {
		if v, ok := meta[key]; ok {
			_ = ic.meta.SetMeta(prepared.ID, key, v)
			delete(meta, key)
		}
	}
	return prepared
}

// truthyMeta interprets a stored "0"/"1" flag value; absent means false.
func truthyMeta(v string) bool {
	return v != "" && v != "0"
}
