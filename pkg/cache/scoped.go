package cache

// Scoped prefixes every key of inner, so entries written under different
// scopes never collide in a shared backend. The CLI scopes by build
// version; a Redis deployment may add its own namespace.
func Scoped(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if scope == "" {
		return inner
	}
	return scopedKeyer{inner: inner, scope: scope}
}

type scopedKeyer struct {
	inner Keyer
	scope string
}

func (k scopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.scope + k.inner.LayoutKey(dataHash, opts)
}

func (k scopedKeyer) RenderKey(snapshotHash string, opts RenderKeyOpts) string {
	return k.scope + k.inner.RenderKey(snapshotHash, opts)
}
