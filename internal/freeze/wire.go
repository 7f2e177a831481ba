package freeze

import (
	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/hook"
)

// FromConfig builds an Interceptor whose supported types and site timezone
// come from configuration. auth and tokens may be nil on surfaces that never
// run interactive saves.
func FromConfig(meta MetaStore, types TypeResolver, cfg *config.Config, auth Authorizer, tokens TokenVerifier) *Interceptor {
	return New(meta, types, Options{
		SupportedTypes: func() []string { return cfg.SupportedTypes },
		Location:       cfg.Location(),
		Auth:           auth,
		Tokens:         tokens,
	})
}

// Bind installs both hook bindings on a registry: the pre-persist save
// interceptor and the per-type API pre-insert interceptors.
func (ic *Interceptor) Bind(reg *hook.Registry) {
	ic.BindSave(reg)
	ic.BindAPI(reg, ic.opts.SupportedTypes())
}
