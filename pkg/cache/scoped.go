package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep several backends' entries apart in one shared Redis.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "brew.example.com:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) StylesKey(source string) string {
	return k.prefix + k.inner.StylesKey(source)
}

func (k *ScopedKeyer) StatsKey(inputHash string) string {
	return k.prefix + k.inner.StatsKey(inputHash)
}

func (k *ScopedKeyer) ArtifactKey(comparisonHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(comparisonHash, opts)
}
