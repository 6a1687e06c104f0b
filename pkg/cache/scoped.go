package cache

// ScopedKeyer wraps a Keyer with a prefix so independent deployments (or
// tests) sharing one backend get separate key namespaces.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "site-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PayloadKey generates a prefixed payload key.
func (k *ScopedKeyer) PayloadKey(vendor, ref string) string {
	return k.prefix + k.inner.PayloadKey(vendor, ref)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
