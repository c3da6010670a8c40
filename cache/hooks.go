package cache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A backing-store or version-store call failed and the fault was
	// swallowed. op ∈ {"get", "set", "del", "encode", "version"}.
	BackendError(op, storageKey string, err error)

	// A stored entry was deleted by the cache on read.
	// reason ∈ {"value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	SetRejected(storageKey string)

	// Both the version bump and the delete failed during Remove
	// (likely backend outage); the entry stays live until its TTL.
	RemoveOutage(key string, err *RemoveError)

	// RemoveByPattern finished; matched is the number of keys removed.
	PatternInvalidated(prefix string, matched int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) BackendError(string, string, error) {}
func (NopHooks) SelfHeal(string, string)            {}
func (NopHooks) SetRejected(string)                 {}
func (NopHooks) RemoveOutage(string, *RemoveError)  {}
func (NopHooks) PatternInvalidated(string, int)     {}
