package freeze

import "sort"

// FieldSpec declares one metadata field on the content-item schema.
type FieldSpec struct {
	// Key is the meta key.
	Key string

	// Single marks the field as singular-valued.
	Single bool

	// APIExposed makes the field visible in structured API output.
	APIExposed bool
}

// FieldRegistry is the host's schema-registration surface for item meta fields.
type FieldRegistry interface {
	Register(spec FieldSpec)
}

// RegisterFields declares this component's two meta fields as singular,
// API-exposed item fields. Idempotent; safe to call on every process start.
func (ic *Interceptor) RegisterFields(reg FieldRegistry) {
	reg.Register(FieldSpec{Key: MetaKeyFlag, Single: true, APIExposed: true})
	reg.Register(FieldSpec{Key: MetaKeyCache, Single: true, APIExposed: true})
}

// Fields is an in-memory FieldRegistry keyed by meta key, so repeated
// registration of the same field is a no-op on the visible schema.
type Fields struct {
	specs map[string]FieldSpec
}

// NewFields creates an empty field registry.
func NewFields() *Fields {
	return &Fields{specs: make(map[string]FieldSpec)}
}

// Register implements FieldRegistry.
func (f *Fields) Register(spec FieldSpec) {
	f.specs[spec.Key] = spec
}

// Exposed reports whether a meta key is registered as API-exposed.
func (f *Fields) Exposed(key string) bool {
	spec, ok := f.specs[key]
	return ok && spec.APIExposed
}

// List returns all registered field specs in key order.
func (f *Fields) List() []FieldSpec {
	keys := make([]string, 0, len(f.specs))
	for k := range f.specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	specs := make([]FieldSpec, 0, len(keys))
	for _, k := range keys {
		specs = append(specs, f.specs[k])
	}
	return specs
}
