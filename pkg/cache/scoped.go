package cache

// ScopedKeyer prefixes every key of an inner Keyer. Servers use it to keep
// separate namespaces on a shared Redis, for example per deployment:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "figslides:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(documentHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(documentHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
