// Package cache provides the namespaced TTL/LRU stores every staking read goes through.
//
// A Store owns one namespace (validators, delegators, apy, ...). Every key is kept as
// "{namespace}:{key}" and each namespace has its own bounded map, so capacity pressure in one
// namespace never evicts entries of another.
//
// Expiry happens two ways:
//
//   - lazily on Get: an entry older than its TTL is removed and reported absent.
//   - proactively by a background sweep every Options.SweepInterval (60s by default),
//     which bounds memory held by entries that are written once and never read again.
//
// When a new key is inserted into a full store, exactly one entry - the one with the oldest
// last read (or write) - is evicted first. An intrusive MRU/LRU list keeps that O(1).
//
// The Registry hands out one Store per namespace and is the only process-wide mutable
// resource; it is constructed and destroyed explicitly by the application.
//
// Basic usage
//
//	reg := cache.NewRegistry(cache.Options{MaxSize: 1000, DefaultTTL: 30 * time.Second}, nil)
//	defer reg.Destroy()
//	vals := reg.Store("validators")
//	vals.Set("validator_info_0xabc", info, 0) // default TTL
//	if v, ok := vals.Get("validator_info_0xabc"); ok {
//	    _ = v.(*staking.ValidatorSnapshot)
//	}
//
// Read-through with an in-flight guard
//
//	info, err := cache.Fetch(ctx, vals, "validator_info_0xabc", 0,
//	    func(ctx context.Context) (*staking.ValidatorSnapshot, error) {
//	        return source.Validator(ctx, "0xabc")
//	    })
package cache
