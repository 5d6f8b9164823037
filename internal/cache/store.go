package cache

import (
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry is a resident value plus the intrusive list links (head=MRU, tail=LRU).
type entry struct {
	key            string // full "{namespace}:{key}"
	value          any
	createdAt      time.Time
	ttl            time.Duration
	lastAccessedAt time.Time

	prev *entry
	next *entry
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Store is a single namespace of the cache. All methods are safe for concurrent use.
type Store struct {
	namespace string
	prefix    string
	opt       Options

	mu     sync.Mutex
	m      map[string]*entry
	head   *entry // MRU
	tail   *entry // LRU
	closed bool

	// in-flight guard for Fetch
	flight singleflight.Group

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewStore creates a store for namespace and starts its cleanup sweep (unless disabled).
// Stores are normally obtained from a Registry.
func NewStore(namespace string, opt Options) *Store {
	opt = opt.withDefaults()
	s := &Store{
		namespace: namespace,
		prefix:    namespace + ":",
		opt:       opt,
		m:         make(map[string]*entry),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if opt.SweepInterval > 0 {
		go s.sweepLoop(opt.SweepInterval)
	} else {
		close(s.done)
	}
	return s
}

func (s *Store) Namespace() string { return s.namespace }

// Set stores value under key. A ttl <= 0 uses the store's default TTL.
// Inserting a new key into a full store evicts the least recently used entry first;
// replacing an existing key never evicts. Returns false only after Destroy.
func (s *Store) Set(key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.opt.DefaultTTL
	}
	now := s.opt.Clock.Now()
	fullKey := s.prefix + key

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	if e, ok := s.m[fullKey]; ok {
		e.value = value
		e.createdAt = now
		e.ttl = ttl
		e.lastAccessedAt = now
		s.moveToFront(e)
		return true
	}

	if len(s.m) >= s.opt.MaxSize {
		if victim := s.tail; victim != nil {
			s.evictLocked(victim, EvictCapacity)
		}
	}
	e := &entry{
		key:            fullKey,
		value:          value,
		createdAt:      now,
		ttl:            ttl,
		lastAccessedAt: now,
	}
	s.m[fullKey] = e
	s.pushFront(e)
	s.opt.Metrics.Size(len(s.m))
	return true
}

// Get returns the value for key. Expired entries are removed and reported absent.
// A hit refreshes the entry's last access time.
func (s *Store) Get(key string) (any, bool) {
	return s.lookup(key, true)
}

func (s *Store) lookup(key string, record bool) (any, bool) {
	now := s.opt.Clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[s.prefix+key]
	if !ok {
		if record {
			s.opt.Metrics.Miss()
		}
		return nil, false
	}
	if e.expired(now) {
		s.evictLocked(e, EvictTTL)
		if record {
			s.opt.Metrics.Miss()
		}
		return nil, false
	}
	e.lastAccessedAt = now
	s.moveToFront(e)
	if record {
		s.opt.Metrics.Hit()
	}
	return e.value, true
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[s.prefix+key]
	if !ok {
		return false
	}
	s.unlink(e)
	delete(s.m, e.key)
	s.opt.Metrics.Size(len(s.m))
	return true
}

// Clear removes every entry of this namespace and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() int {
	n := len(s.m)
	clear(s.m)
	s.head, s.tail = nil, nil
	s.opt.Metrics.Size(0)
	return n
}

// Keys returns the resident keys with the namespace prefix stripped, sorted.
// Expired entries not yet swept are included.
func (s *Store) Keys() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	s.mu.Unlock()
	slices.Sort(keys)
	return keys
}

// Len returns the number of resident entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Destroy stops the cleanup sweep and clears the store. Safe to call more than once.
func (s *Store) Destroy() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.mu.Lock()
		s.closed = true
		s.clearLocked()
		s.mu.Unlock()
	})
}

// sweep deletes every expired entry and returns the count.
func (s *Store) sweep() int {
	now := s.opt.Clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for _, e := range s.m {
		if e.expired(now) {
			s.evictLocked(e, EvictTTL)
			removed++
		}
	}
	return removed
}

func (s *Store) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// -------------------- list internals (mu held) --------------------

func (s *Store) evictLocked(e *entry, reason EvictReason) {
	s.unlink(e)
	delete(s.m, e.key)
	s.opt.Metrics.Evict(reason)
	s.opt.Metrics.Size(len(s.m))
}

func (s *Store) pushFront(e *entry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *Store) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.unlink(e)
	s.pushFront(e)
}

func (s *Store) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else if s.head == e {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else if s.tail == e {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
