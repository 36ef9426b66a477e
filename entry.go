package assetcache

// State is the lifecycle state of a cache entry.
type State uint8

const (
	// StateAbsent means no entry exists for the identifier.
	StateAbsent State = iota

	// StatePending means a load for the identifier has started but has not
	// yet settled.
	StatePending

	// StateResolved means the identifier maps to a decoded asset.
	// The asset itself may be the zero value of V if it was stored as such.
	StateResolved
)

// Entry is the tagged value of a cache slot. Value is meaningful only when
// State is StateResolved; keeping the state explicit avoids overloading a
// single nullable slot where a pending marker would collide with a
// legitimately cached zero value.
type Entry[V AssetConstraint] struct {
	State State
	Value V
}

// Resolved returns the entry's asset and whether the entry is resolved.
func (e Entry[V]) Resolved() (V, bool) {
	if e.State != StateResolved {
		var zero V
		return zero, false
	}
	return e.Value, true
}
