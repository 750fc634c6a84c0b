package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or deployments
// can share one redis database without key collisions.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// QueryKey generates a prefixed query key.
func (k *ScopedKeyer) QueryKey(kind, graphHash string, opts QueryKeyOpts) string {
	return k.prefix + k.inner.QueryKey(kind, graphHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
